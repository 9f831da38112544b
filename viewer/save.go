package viewer

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
)

// SavePNG encodes img to name. Cancelling ctx closes the file under the
// encoder; on any failure the partial file is removed.
func SavePNG(ctx context.Context, name string, img image.Image) (err error) {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(file.Name())
		}
	}()

	stop := context.AfterFunc(ctx, func() {
		file.Close()
	})

	err = png.Encode(file, img)
	if !stop() {
		return context.Cause(ctx)
	}
	if err != nil {
		file.Close()
		return fmt.Errorf("encoding %v: %w", name, err)
	}
	return file.Close()
}
