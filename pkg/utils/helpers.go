package utils

import (
	"fmt"
	"os"
)

//InSlice returns true if given string appears in given slice
func InSlice(lookingFor string, slice []string) bool {
	for _, s := range slice {
		if s == lookingFor {
			return true
		}
	}

	return false
}

//ListDir returns a list of files/ directories in given path
func ListDir(path string) ([]string, error) {
	names := make([]string, 0)
	files, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("ListDir: Error, got '%v'", err)
	}

	for _, f := range files {
		names = append(names, f.Name())
	}

	return names, nil
}
