// Package scanner parses scanner reports into per-scanner point clouds.
//
// A report is a sequence of blocks separated by blank lines. Each block
// starts with a header line (for example "--- scanner 0 ---") followed
// by one "x,y,z" beacon reading per line, in the scanner's own frame.
// Scanner IDs are assigned by block order, not read from the header.
package scanner
