/*******************************************************************************
*
* Copyright 2024 Heimdall contributors
*
* This file is part of Heimdall.
*
* Heimdall is free software: you can redistribute it and/or modify it under the
* terms of the GNU General Public License as published by the Free Software
* Foundation, either version 3 of the License, or (at your option) any later
* version.
*
* Heimdall is distributed in the hope that it will be useful, but WITHOUT ANY
* WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS FOR
* A PARTICULAR PURPOSE. See the GNU General Public License for more details.
*
* You should have received a copy of the GNU General Public License along with
* Heimdall. If not, see <http://www.gnu.org/licenses/>.
*
*******************************************************************************/

// Package component holds the central ComponentInfo entity and the
// transient ObjectView snapshot produced by the binary readers. This is
// the data model that every other package (readers, dwarfx, attributors,
// extractor, sbom) reads from or writes into.
package component

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// FileType enumerates the kind of artifact a ComponentInfo represents.
type FileType int

const (
	FileTypeUnknown FileType = iota
	FileTypeExecutable
	FileTypeSharedLibrary
	FileTypeStaticArchive
	FileTypeObjectFile
	FileTypeSourceFile
)

func (t FileType) String() string {
	switch t {
	case FileTypeExecutable:
		return "Executable"
	case FileTypeSharedLibrary:
		return "SharedLibrary"
	case FileTypeStaticArchive:
		return "StaticArchive"
	case FileTypeObjectFile:
		return "ObjectFile"
	case FileTypeSourceFile:
		return "SourceFile"
	default:
		return "Unknown"
	}
}

// PackageManager tags the provenance source that enriched a component.
type PackageManager string

const (
	PackageManagerSystem  PackageManager = "system"
	PackageManagerConan   PackageManager = "conan"
	PackageManagerVcpkg   PackageManager = "vcpkg"
	PackageManagerGnat    PackageManager = "gnat"
	PackageManagerGeneric PackageManager = "generic"
	PackageManagerUnknown PackageManager = "unknown"
)

// ChecksumKind is a key into ComponentInfo.Checksums.
type ChecksumKind string

const (
	ChecksumSHA1   ChecksumKind = "SHA1"
	ChecksumSHA256 ChecksumKind = "SHA256"
)

// SymbolInfo is one entry from a binary's symbol table.
type SymbolInfo struct {
	Name       string // demangled, where demangling succeeded
	RawName    string // original mangled form, always preserved
	Size       uint64
	Binding    string // "local", "global", "weak"
	Visibility string // "default", "hidden", "protected", "internal"
	Section    string
}

// SectionInfo is one entry from a binary's section/segment table.
type SectionInfo struct {
	Name  string
	Size  uint64
	Flags string
}

// Info is the central entity: everything Heimdall knows about a single
// software artifact that contributed to the binary under analysis.
//
// Once Processed is true, the structural fields set by the readers
// (Checksums, FileType, FileSize, Sections, Symbols) are frozen — callers
// must treat them as read-only from that point on (invariant I2).
type Info struct {
	Name       string
	FilePath   string // absolute path, used as the identity seed
	IdentityKey string // derived: hash(FilePath || content SHA-256); set at publish time

	Version            string
	Supplier           string
	DownloadLocation   string // URL, or "NOASSERTION"
	Homepage           string
	LicenseDeclared    string // SPDX expression
	LicenseConcluded   string // SPDX expression

	Checksums      map[ChecksumKind]string
	PackageManager PackageManager
	FileType       FileType
	FileSize       uint64

	Symbols      []SymbolInfo
	Sections     []SectionInfo
	Dependencies []string // ordered, de-duplicated soname/path strings, plus the IdentityKey of each contained archive member
	SourceFiles  []string // insertion order preserved
	Functions    []string // demangled names, from DWARF or symbol fallback
	CompileUnits []string

	// ParentIdentityKey is set on an archive member to the IdentityKey of
	// the archive that CONTAINS it (spec.md §4.5). Empty for components
	// that did not come from an archive member.
	ParentIdentityKey string
	// ArchiveMemberKeys holds the IdentityKey of each member published
	// from this component's own archive, in publish order, mirroring
	// ParentIdentityKey from the other end of the relationship.
	ArchiveMemberKeys []string

	Properties map[string]string

	Processed        bool
	ContainsDebugInfo bool
	Stripped          bool
	IsSystemLibrary   bool
	DetectedBy        string // tag of the linker plugin / scanner that found this path

	ProcessingError string
}

// New creates a freshly-seeded, unprocessed Info for the given path and
// name. Callers (the extractor) fill in the rest as readers/dwarfx/
// attributors run.
func New(name, filePath string) *Info {
	return &Info{
		Name:       name,
		FilePath:   filePath,
		Checksums:  make(map[ChecksumKind]string),
		Properties: make(map[string]string),
	}
}

// computeIdentityKey derives the dedup identity per spec invariant I1:
// hash(FilePath || content SHA-256). It is called once, at publish time,
// after the SHA-256 checksum has been filled in by the reader.
func computeIdentityKey(filePath string, contentSHA256 string) string {
	h := sha256.New()
	h.Write([]byte(filePath))
	h.Write([]byte("|"))
	h.Write([]byte(contentSHA256))
	return hex.EncodeToString(h.Sum(nil))
}

// Publish finalizes identity and marks the component processed. It is the
// only place IdentityKey is assigned, and it refuses to run twice.
func (c *Info) Publish() error {
	if c.Processed {
		return fmt.Errorf("component %s: already published", c.FilePath)
	}
	sha256sum, ok := c.Checksums[ChecksumSHA256]
	if !ok || sha256sum == "" {
		return fmt.Errorf("component %s: cannot publish without a SHA-256 checksum (invariant I3)", c.FilePath)
	}
	c.IdentityKey = computeIdentityKey(c.FilePath, sha256sum)
	c.Processed = true
	return nil
}

// AddAlias records a second filesystem path that resolved to the same
// content (and thus the same component, per the dedup rule in §4.4).
func (c *Info) AddAlias(path string) {
	existing := c.Properties["aliases"]
	if existing == "" {
		c.Properties["aliases"] = path
		return
	}
	for _, a := range splitAliases(existing) {
		if a == path {
			return
		}
	}
	c.Properties["aliases"] = existing + ";" + path
}

func splitAliases(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ';' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}
