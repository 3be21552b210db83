package render

import (
	"image"
	"sync"

	"github.com/skip2/go-qrcode"
)

const defaultQRCodeSizePx = 256

// QRCache renders QR codes and remembers the last one, since screens ask for
// the same payload every frame.
type QRCache struct {
	mu      sync.Mutex
	payload string
	sizePx  int
	img     image.Image
}

// Image returns a QR code for payload. An empty payload yields (nil, nil).
func (q *QRCache) Image(payload string, sizePx int) (image.Image, error) {
	if payload == "" {
		return nil, nil
	}
	if sizePx <= 0 {
		sizePx = defaultQRCodeSizePx
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.img != nil && q.payload == payload && q.sizePx == sizePx {
		return q.img, nil
	}
	code, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	q.payload, q.sizePx, q.img = payload, sizePx, code.Image(sizePx)
	return q.img, nil
}
