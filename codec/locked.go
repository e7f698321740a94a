// SPDX-License-Identifier: EPL-2.0

package codec

import "sync"

// Locked serialises access to an AACDecoder shared between goroutines.
type Locked struct {
	dec *AACDecoder

	mtx *sync.Mutex
}

func NewLocked(dec *AACDecoder) *Locked {
	return &Locked{
		dec: dec,
		mtx: &sync.Mutex{},
	}
}

func (l *Locked) Get(q Query) uint32 {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	return l.dec.Get(q)
}

func (l *Locked) Send(data []byte) bool {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	return l.dec.Send(data)
}

func (l *Locked) Receive(out []byte, size *Size) bool {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	return l.dec.Receive(out, size)
}

func (l *Locked) Close() error {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	return l.dec.Close()
}
