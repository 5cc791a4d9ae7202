// Package exifdate reads capture timestamps from image metadata.
package exifdate

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// ErrNoDate is returned when the image carries no usable capture date
var ErrNoDate = errors.New("no capture date in exif data")

// DateLayout matches the 8-digit date token of camera file names
const DateLayout = "20060102"

// Taken returns the DateTimeOriginal of an image, falling back to DateTime
func Taken(r io.Reader) (time.Time, error) {
	x, err := exif.Decode(r)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrNoDate, err)
	}

	t, err := x.DateTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrNoDate, err)
	}
	return t, nil
}

// Day returns the capture date of an image in DateLayout form
func Day(r io.Reader) (string, error) {
	t, err := Taken(r)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayout), nil
}
