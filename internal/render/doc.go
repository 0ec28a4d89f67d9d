// Package render draws alignment results: a PNG projection via
// gonum/plot and an interactive HTML page via go-echarts.
package render
