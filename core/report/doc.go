// Package report renders completed registries. The classic layout prints
// fixed-width rows followed by the average turnaround; the table layout
// draws a bordered table with the averages in its footer.
package report
