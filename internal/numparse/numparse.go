// Package numparse pulls decimal numbers out of free-form text.
package numparse

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/wasilibs/go-re2"
	"golang.org/x/text/unicode/norm"
)

// numberPattern matches signed integers, decimals and exponent forms such as
// 42, -3.5, .25 and 1e-3. A sign glued to a preceding digit starts a new
// number, so "1-2" yields 1 and -2.
var numberPattern = re2.MustCompile(`[-+]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][-+]?\d+)?`)

// maxLineSize bounds a single input line for Scan.
const maxLineSize = 1024 * 1024

// Extract returns every number found in line, in order of appearance.
// The line is NFKC-normalized first, so fullwidth digits and signs parse
// like their ASCII forms. Tokens that overflow float64 are skipped.
func Extract(line string) []float64 {
	matches := numberPattern.FindAllString(norm.NFKC.String(line), -1)
	if len(matches) == 0 {
		return nil
	}

	values := make([]float64, 0, len(matches))
	for _, m := range matches {
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	return values
}

// Scan reads r line by line and calls fn for each extracted number.
// It stops at the first error returned by fn.
func Scan(r io.Reader, fn func(float64) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		for _, v := range Extract(scanner.Text()) {
			if err := fn(v); err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}
