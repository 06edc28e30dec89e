package portscan

// wellKnownServices is a small static port->service-name table covering
// the ports any of the built-in presets can produce. It stands in for
// the bundled service databases the original tool ships (ndb_tcp_service
// / ndb_udp_service); spec.md doesn't require an exhaustive IANA dump,
// only that Open samples carry a human-readable name when one is known.
var wellKnownServices = map[uint16]string{
	20:    "ftp-data",
	21:    "ftp",
	22:    "ssh",
	23:    "telnet",
	25:    "smtp",
	53:    "dns",
	67:    "dhcp-server",
	68:    "dhcp-client",
	69:    "tftp",
	80:    "http",
	110:   "pop3",
	111:   "rpcbind",
	119:   "nntp",
	123:   "ntp",
	135:   "msrpc",
	137:   "netbios-ns",
	138:   "netbios-dgm",
	139:   "netbios-ssn",
	143:   "imap",
	161:   "snmp",
	162:   "snmptrap",
	179:   "bgp",
	389:   "ldap",
	443:   "https",
	445:   "microsoft-ds",
	465:   "smtps",
	514:   "syslog",
	515:   "printer",
	587:   "submission",
	631:   "ipp",
	636:   "ldaps",
	993:   "imaps",
	995:   "pop3s",
	1080:  "socks",
	1194:  "openvpn",
	1433:  "ms-sql-s",
	1521:  "oracle",
	1723:  "pptp",
	2049:  "nfs",
	27017: "mongodb",
	3000:  "dev-http",
	3128:  "squid-http",
	3306:  "mysql",
	3389:  "ms-wbt-server",
	4369:  "epmd",
	5000:  "dev-http-alt",
	5432:  "postgresql",
	5672:  "amqp",
	5900:  "vnc",
	6379:  "redis",
	6443:  "kubernetes-api",
	8080:  "http-proxy",
	8443:  "https-alt",
	9000:  "dev-http-alt2",
	9090:  "prometheus",
	9200:  "elasticsearch",
	9300:  "elasticsearch-transport",
	11211: "memcached",
	27018: "mongodb-shard",
}

func serviceName(port uint16) string {
	return wellKnownServices[port]
}
