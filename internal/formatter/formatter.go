// package formatter renders run results as the report table, CSV and history listings
package formatter

const (
	ReportName = "report.txt"
	CSVName    = "results.csv"
)
