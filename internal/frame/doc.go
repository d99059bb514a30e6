// Package frame downloads snapshot images and draws them in the terminal
// as coloured half-block cells.
package frame
