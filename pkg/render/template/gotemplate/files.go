package gotemplate

import (
	"errors"
	"io/fs"
)

// layeredFS opens a name from the first layer that has it, so a templates
// directory can override single files of the embedded bundle.
type layeredFS []fs.FS

func layered(layers []fs.FS) fs.FS {
	if len(layers) == 1 {
		return layers[0]
	}
	return layeredFS(layers)
}

func (l layeredFS) Open(name string) (fs.File, error) {
	var firstErr error
	for _, layer := range l {
		file, err := layer.Open(name)
		if err == nil {
			return file, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}
