package popularity

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Binary table format: 4 byte entry count header, then per entry
// 2 byte scope length + scope + 2 byte symbol length + symbol + 4 byte
// count, everything little-endian.

// LoadFile reads a binary popularity table from disk.
func LoadFile(filename string) (*Table, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Errorf("closing file: %v", err)
		}
	}()

	reader := bufio.NewReader(file)

	var totalEntries int32
	if err := binary.Read(reader, binary.LittleEndian, &totalEntries); err != nil {
		return nil, fmt.Errorf("reading entry count: %w", err)
	}
	log.Debugf("Total entries in popularity table: %d", totalEntries)

	table := NewTable()
	for count := 0; count < int(totalEntries); count++ {
		scope, err := readString(reader)
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("reading scope: %w", err)
		}
		symbol, err := readString(reader)
		if err != nil {
			return nil, fmt.Errorf("reading symbol: %w", err)
		}
		var uses uint32
		if err := binary.Read(reader, binary.LittleEndian, &uses); err != nil {
			return nil, fmt.Errorf("reading count for %s.%s: %w", scope, symbol, err)
		}
		table.Add(scope, symbol, uses)
	}

	log.Debugf("Loaded %d popularity entries from %s", table.symbols, filename)
	return table, nil
}

// LoadDir merges every pop_*.bin table under dir into one table. A
// missing directory is not an error; it just yields an empty table.
func LoadDir(dir string) (*Table, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "pop_*.bin"))
	if err != nil {
		return nil, err
	}

	merged := NewTable()
	for _, path := range matches {
		table, err := LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		err = table.visitEntries(func(scope, symbol string, uses uint32) error {
			merged.Add(scope, symbol, uses)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	log.Debugf("Merged %d popularity tables from %s", len(matches), dir)
	return merged, nil
}

// SaveFile writes the table in the binary format LoadFile reads.
func (t *Table) SaveFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Errorf("closing file: %v", err)
		}
	}()

	writer := bufio.NewWriter(file)

	if err := binary.Write(writer, binary.LittleEndian, int32(t.symbols)); err != nil {
		return err
	}

	err = t.visitEntries(func(scope, symbol string, uses uint32) error {
		if err := writeString(writer, scope); err != nil {
			return err
		}
		if err := writeString(writer, symbol); err != nil {
			return err
		}
		return binary.Write(writer, binary.LittleEndian, uses)
	})
	if err != nil {
		return err
	}
	return writer.Flush()
}

func readString(r *bufio.Reader) (string, error) {
	var length uint16
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return "", err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writeString(w *bufio.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint16(len(s))); err != nil {
		return err
	}
	_, err := w.WriteString(s)
	return err
}
