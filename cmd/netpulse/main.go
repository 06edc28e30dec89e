// Command netpulse is the CLI front-end for the probe core: ping,
// hostscan, portscan, traceroute, neighbor and ifaces, one subcommand each.
package main

func main() {
	Execute()
}
