// Package qrchannel defines the narrow interfaces the fountain transport
// core depends on but does not implement: how a packet's envelope text
// becomes a 2-D barcode image, how that image is recovered, and how a
// sequence of images is iterated over. Spec §6 calls these "collaborators";
// this repo implements none of the actual QR/image algorithms (that is an
// explicit non-goal), only the contracts and two reference ImageSource
// implementations that move already-encoded text around unchanged.
package qrchannel

import (
	"errors"

	"github.com/handsomecheung/cube/sizing"
)

// Image is an opaque handle to one recovered frame, however the
// collaborator chooses to represent pixels. The core never inspects it.
type Image interface{}

// QREncoder produces a 2-D barcode image carrying text. hint, when non-nil,
// pins the barcode's version/size so a multi-frame sequence renders at a
// uniform size (spec §9): the sender passes nil for the first packet and
// the version it got back for every packet after that.
type QREncoder interface {
	Encode(text string, hint *int) (img Image, version int, err error)
}

// QRDecoder recovers the text payload of a single barcode image. It fails
// if no code is found in img; the receiver treats that as a skip (spec
// §4.6 step 1), not a fatal error.
type QRDecoder interface {
	Decode(img Image) (text string, err error)
}

// FitFunc is the same type sizing.Plan negotiates against: MUST be
// consistent with QREncoder (returning true implies QREncoder.Encode on the
// same text will succeed).
type FitFunc = sizing.FitFunc

// ErrNoMoreImages is returned by ImageSource.Next once iteration is
// exhausted; it is not a failure, just end-of-stream.
var ErrNoMoreImages = errors.New("qrchannel: no more images")

// ImageSource is the receiver's polymorphic input: a directory of stills, a
// GIF's frames, or any future frame source. It is consumed lazily,
// single-pass, never rewound (spec §4.6/§9).
type ImageSource interface {
	// Next returns the next image and a label used only for diagnostics.
	// err is non-nil either when this particular item failed to decode
	// (the receiver logs and skips it, continuing iteration) or when the
	// source is exhausted (err wraps ErrNoMoreImages, ok is false).
	Next() (img Image, label string, ok bool, err error)
}
