// seehuhn.de/go/pdfstream - a streaming writer for PDF files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package pdfstream

import (
	"encoding/binary"
	"math"
	"sync"
	"time"

	"seehuhn.de/go/icc"
)

// Tags used in the sRGB profile, in addition to the ones defined by the
// icc package.
const (
	tagMediaWhitePoint icc.TagType = 0x77747074 // "wtpt"
	tagRedColorant     icc.TagType = 0x7258595A // "rXYZ"
	tagGreenColorant   icc.TagType = 0x6758595A // "gXYZ"
	tagBlueColorant    icc.TagType = 0x6258595A // "bXYZ"
	tagRedTRC          icc.TagType = 0x72545243 // "rTRC"
	tagGreenTRC        icc.TagType = 0x67545243 // "gTRC"
	tagBlueTRC         icc.TagType = 0x62545243 // "bTRC"
)

// srgbDescription is used both as the profile description and as the
// output condition identifier of the output intent.
const srgbDescription = "sRGB IEC61966-2.1"

// srgbProfile returns a version 2 ICC display profile for the sRGB colour
// space.  The colorants are the sRGB primaries adapted to D50.
var srgbProfile = sync.OnceValue(func() []byte {
	trc := srgbCurve(1024)
	p := &icc.Profile{
		Version:      icc.Version2_1_0,
		Class:        icc.DisplayDeviceProfile,
		ColorSpace:   icc.RGBSpace,
		PCS:          icc.PCSXYZSpace,
		CreationDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		TagData: map[icc.TagType][]byte{
			icc.ProfileDescription: iccDescription(srgbDescription),
			icc.Copyright:          iccText("No copyright, use freely"),
			tagMediaWhitePoint:     iccXYZ(0.9642, 1.0, 0.8249),
			tagRedColorant:         iccXYZ(0.4361, 0.2225, 0.0139),
			tagGreenColorant:       iccXYZ(0.3851, 0.7169, 0.0971),
			tagBlueColorant:        iccXYZ(0.1431, 0.0606, 0.7141),
			tagRedTRC:              trc,
			tagGreenTRC:            trc,
			tagBlueTRC:             trc,
		},
	}
	return p.Encode()
})

// iccDescription encodes a textDescriptionType tag with an ASCII
// description only.
func iccDescription(s string) []byte {
	buf := make([]byte, 0, 12+len(s)+1+4+4+3+67)
	buf = append(buf, "desc"...)
	buf = binary.BigEndian.AppendUint32(buf, 0)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(s)+1))
	buf = append(buf, s...)
	buf = append(buf, 0)
	// empty Unicode and ScriptCode descriptions
	buf = append(buf, make([]byte, 4+4+3+67)...)
	return buf
}

// iccText encodes a textType tag.
func iccText(s string) []byte {
	buf := make([]byte, 0, 8+len(s)+1)
	buf = append(buf, "text"...)
	buf = binary.BigEndian.AppendUint32(buf, 0)
	buf = append(buf, s...)
	buf = append(buf, 0)
	return buf
}

// iccXYZ encodes an XYZType tag with a single value.
func iccXYZ(x, y, z float64) []byte {
	buf := make([]byte, 0, 20)
	buf = append(buf, "XYZ "...)
	buf = binary.BigEndian.AppendUint32(buf, 0)
	for _, v := range []float64{x, y, z} {
		buf = binary.BigEndian.AppendUint32(buf, uint32(int32(math.Round(v*65536))))
	}
	return buf
}

// srgbCurve encodes the sRGB transfer function as a curveType tag with n
// samples.
func srgbCurve(n int) []byte {
	buf := make([]byte, 0, 12+2*n)
	buf = append(buf, "curv"...)
	buf = binary.BigEndian.AppendUint32(buf, 0)
	buf = binary.BigEndian.AppendUint32(buf, uint32(n))
	for i := 0; i < n; i++ {
		v := float64(i) / float64(n-1)
		if v <= 0.04045 {
			v /= 12.92
		} else {
			v = math.Pow((v+0.055)/1.055, 2.4)
		}
		buf = binary.BigEndian.AppendUint16(buf, uint16(math.Round(v*65535)))
	}
	return buf
}
