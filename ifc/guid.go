package ifc

import (
	"github.com/google/uuid"
)

const guidChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz_$"

var guidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/binzume/ifcconv"))

// CompressGUID encodes a UUID as the 22 character IFC GlobalId.
func CompressGUID(u uuid.UUID) string {
	var s [22]byte
	n := uint32(u[0])
	s[0] = guidChars[n/64]
	s[1] = guidChars[n%64]
	for i := 0; i < 5; i++ {
		n = uint32(u[1+i*3])<<16 | uint32(u[2+i*3])<<8 | uint32(u[3+i*3])
		for j := 3; j >= 0; j-- {
			s[2+i*4+j] = guidChars[n%64]
			n /= 64
		}
	}
	return string(s[:])
}

// pathGUID derives a stable GlobalId from a structural path.
func pathGUID(path string) string {
	return CompressGUID(uuid.NewSHA1(guidNamespace, []byte(path)))
}
