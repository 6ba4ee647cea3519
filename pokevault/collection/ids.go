package collection

import (
	"crypto/rand"
	"encoding/binary"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// NewID mints a unique record id: a snowflake with the millisecond timestamp
// in the high bits and crypto/rand entropy in the low 22. Uniqueness needs no
// coordination between devices, which matters because mirror entries and
// trades are minted offline on two clients at once.
func NewID() string {
	var b [4]byte
	_, _ = rand.Read(b[:])
	entropy := binary.BigEndian.Uint32(b[:]) & 0x3FFFFF
	id := snowflake.New(time.Now()) | snowflake.ID(entropy)
	return id.String()
}
