/*
Copyright © 2026 Billy G. Allie <bill.allie@defiant.mug.org>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bgallie/f42/cryptors/tables"
	"github.com/bgallie/filters/pem"
)

const pemType = "F42 Encrypted Message"

var (
	errBadHeader         = errors.New("malformed F42 header")
	errApiLevelMismatch  = errors.New("API level mismatch")
	errTablesFingerprint = errors.New("cipher tables fingerprint mismatch")
)

// fileHeader describes an encrypted file: which tables encrypted it and how
// the ciphertext is encoded.  The binary and ASCII85 forms write it as a
// single line
//
//	+F42|apiLevel|fileName|a or b|seed|fingerprint
//
// and the PEM form stores the same values as PEM headers.
type fileHeader struct {
	apiLevel    int
	fileName    string
	ascii85     bool
	seed        int64
	fingerprint uint64
}

func newFileHeader(fileName string, ascii85 bool, t *tables.Tables) fileHeader {
	return fileHeader{
		apiLevel:    f42ApiLevel,
		fileName:    fileName,
		ascii85:     ascii85,
		seed:        t.Seed(),
		fingerprint: t.Fingerprint(),
	}
}

func (h fileHeader) String() string {
	encoding := "b"
	if h.ascii85 {
		encoding = "a"
	}

	return fmt.Sprintf("%s|%d|%s|%s|%d|%016x\n",
		f42HeaderMagic, h.apiLevel, h.fileName, encoding, h.seed, h.fingerprint)
}

func parseHeaderLine(line string) (fileHeader, error) {
	var h fileHeader
	fields := strings.Split(strings.TrimRight(line, "\r\n"), "|")
	if len(fields) != 6 || fields[0] != f42HeaderMagic {
		return h, fmt.Errorf("%w: %q", errBadHeader, line)
	}

	var err error
	if h.apiLevel, err = strconv.Atoi(fields[1]); err != nil {
		return h, fmt.Errorf("%w: API level: %v", errBadHeader, err)
	}

	h.fileName = fields[2]
	switch fields[3] {
	case "a":
		h.ascii85 = true
	case "b":
	default:
		return h, fmt.Errorf("%w: unknown encoding %q", errBadHeader, fields[3])
	}

	if h.seed, err = strconv.ParseInt(fields[4], 10, 64); err != nil {
		return h, fmt.Errorf("%w: seed: %v", errBadHeader, err)
	}

	if h.fingerprint, err = strconv.ParseUint(fields[5], 16, 64); err != nil {
		return h, fmt.Errorf("%w: fingerprint: %v", errBadHeader, err)
	}

	return h, nil
}

func (h fileHeader) pemBlock() pem.Block {
	var blck pem.Block
	blck.Type = pemType
	blck.Headers = make(map[string]string)
	blck.Headers["ApiLevel"] = strconv.Itoa(h.apiLevel)
	blck.Headers["Seed"] = strconv.FormatInt(h.seed, 10)
	blck.Headers["Fingerprint"] = fmt.Sprintf("%016x", h.fingerprint)
	if len(h.fileName) > 0 {
		blck.Headers["FileName"] = h.fileName
	}

	return blck
}

func headerFromPem(blck pem.Block) (fileHeader, error) {
	var h fileHeader
	var err error
	if blck.Type != pemType {
		return h, fmt.Errorf("%w: PEM type %q", errBadHeader, blck.Type)
	}

	if h.apiLevel, err = strconv.Atoi(blck.Headers["ApiLevel"]); err != nil {
		return h, fmt.Errorf("%w: API level: %v", errBadHeader, err)
	}

	if h.seed, err = strconv.ParseInt(blck.Headers["Seed"], 10, 64); err != nil {
		return h, fmt.Errorf("%w: seed: %v", errBadHeader, err)
	}

	if h.fingerprint, err = strconv.ParseUint(blck.Headers["Fingerprint"], 16, 64); err != nil {
		return h, fmt.Errorf("%w: fingerprint: %v", errBadHeader, err)
	}

	h.fileName = blck.Headers["FileName"]
	return h, nil
}

// check verifies that the file can be decrypted with t.
func (h fileHeader) check(t *tables.Tables) error {
	if h.apiLevel != f42ApiLevel {
		return fmt.Errorf("%w: file API level %d, f42 API level %d", errApiLevelMismatch, h.apiLevel, f42ApiLevel)
	}

	if fp := t.Fingerprint(); h.fingerprint != fp {
		return fmt.Errorf("%w: file %016x, seed %d gives %016x", errTablesFingerprint, h.fingerprint, t.Seed(), fp)
	}

	return nil
}
