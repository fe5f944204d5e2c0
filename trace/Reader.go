package trace

import (
	"archive/zip"
	"fmt"
	"strings"

	"gorgonia.org/tensor"
)

// ReadTrace reads a trace archive written by a Writer and returns one
// dense array per entry, keyed by component name with the .npy suffix
// stripped
func ReadTrace(path string) (map[string]*tensor.Dense, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("read trace: could not open %v: %v",
			path, err)
	}
	defer archive.Close()

	arrays := make(map[string]*tensor.Dense, len(archive.File))

	for _, entry := range archive.File {
		name := strings.TrimSuffix(entry.Name, ".npy")

		reader, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("read trace: could not open entry "+
				"%q: %v", entry.Name, err)
		}

		dense := new(tensor.Dense)
		err = dense.ReadNpy(reader)
		reader.Close()
		if err != nil {
			return nil, fmt.Errorf("read trace: could not decode "+
				"entry %q: %v", entry.Name, err)
		}

		arrays[name] = dense
	}

	return arrays, nil
}
