// Package corpus reads test corpora provided as file systems.
package corpus

import (
	"io/fs"
)

// File is a file of a corpus.
type File struct {
	Name string
	Data []byte
}

// Files reads all regular files of the corpus in lexical order. The data
// of files longer than maxLen bytes is truncated; maxLen <= 0 reads the
// complete files.
func Files(corpus fs.FS, maxLen int) (files []File, err error) {
	err = fs.WalkDir(corpus, ".",
		func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !entry.Type().IsRegular() {
				return nil
			}
			data, err := fs.ReadFile(corpus, path)
			if err != nil {
				return err
			}
			if maxLen > 0 && len(data) > maxLen {
				data = data[:maxLen:maxLen]
			}
			files = append(files, File{Name: path, Data: data})
			return nil
		})
	if err != nil {
		return nil, err
	}
	return files, nil
}
