// Package reporter renders the terminal result types (PingStat,
// HostScanReport, PortScanReport, TraceResult, NeighborTable) and the
// []ifaceinfo.Interface list for human
// consumption, grounded on neoAgent's internal/core/reporter package
// (ConsoleReporter/CsvReporter, pterm table rendering, BOM-prefixed CSV).
package reporter
