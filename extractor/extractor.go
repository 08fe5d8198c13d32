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

// Package extractor implements the Component Model & Metadata Extractor
// orchestrator of spec.md §4.4: it drives readers → DWARF → attributors
// for each input path and publishes components into a single owned set.
package extractor

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/heimdall-sbom/heimdall/attributors"
	"github.com/heimdall-sbom/heimdall/component"
	"github.com/heimdall-sbom/heimdall/config"
	"github.com/heimdall-sbom/heimdall/dwarfx"
	"github.com/heimdall-sbom/heimdall/readers"
)

// ComponentID identifies a published component within one Extractor's set.
type ComponentID string

// Extractor owns the component set exclusively until publication; after
// that, readers of Components() get a read-only view (spec.md §5
// "Shared-resource policy").
type Extractor struct {
	logger  *logrus.Logger
	options config.Options
	probes  []attributors.Probe

	byIdentity map[string]ComponentID // content identity -> component id
	components map[ComponentID]*component.Info
	order      []ComponentID // path-arrival order, modulo dedup
}

// New builds an Extractor bound to logger and options. The logger is
// passed by reference rather than read from a package-level global (spec
// Design Note: "global verbose flag → a configuration struct threaded
// explicitly").
func New(logger *logrus.Logger, options config.Options) *Extractor {
	return &Extractor{
		logger:  logger,
		options: options,
		probes: attributors.Default(attributors.Options{
			AliSearchPaths: options.AliSearchPaths,
			AliEnabled:     options.AliEnabled,
		}),
		byIdentity: make(map[string]ComponentID),
		components: make(map[ComponentID]*component.Info),
	}
}

// SetTransitiveDependencies overrides the transitive-dependency-resolution
// option after construction, for callers (such as the plugin C-ABI shim)
// that configure the extractor incrementally rather than through a single
// config.Options value.
func (e *Extractor) SetTransitiveDependencies(enabled bool) {
	e.options.TransitiveDependencies = enabled
}

// ProcessPath implements process_path (spec.md §4.4): normalize →
// read and checksum → dedup check → DWARF → attribute → publish.
func (e *Extractor) ProcessPath(path string) (ComponentID, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("extractor: cannot resolve %s: %w", path, err)
	}

	view, err := readers.Open(absPath)
	if err != nil {
		// per-path failures never abort the batch: publish an incomplete
		// component carrying the error (spec.md §4.4 "Failure policy").
		return e.publishIncomplete(absPath, err), nil
	}

	contentKey := view.SHA256 + "|" + view.Format.String()
	if existingID, ok := e.byIdentity[contentKey]; ok {
		existing := e.components[existingID]
		existing.AddAlias(absPath)
		return existingID, nil
	}

	info := component.New(filepath.Base(absPath), absPath)
	e.fillFromObjectView(info, view)

	if e.options.ExtractDebugInfo {
		e.enrichWithDebugInfo(info, absPath, view)
	}

	attributors.Run(info, e.probes)

	if err := info.Publish(); err != nil {
		e.logger.WithError(err).Warnf("extractor: publish failed for %s", absPath)
		info.ProcessingError = err.Error()
	}

	id := ComponentID(info.IdentityKey)
	if id == "" {
		id = ComponentID(absPath)
	}
	e.components[id] = info
	e.order = append(e.order, id)
	e.byIdentity[contentKey] = id

	// archive members and universal Mach-O slices are published as
	// independent sibling components (boundary B3, B4), linked back to
	// the archive via a CONTAINS/dependsOn edge (spec.md §4.5).
	for _, member := range view.ArchiveMembers {
		e.publishArchiveMember(info, member)
	}

	if e.options.TransitiveDependencies {
		e.resolveTransitiveDeps(info)
	}

	return id, nil
}

// ProcessLibrary implements process_library: same as ProcessPath, but
// marks IsSystemLibrary when the path sits under a standard system
// prefix (spec.md §4.4).
func (e *Extractor) ProcessLibrary(path string) (ComponentID, error) {
	id, err := e.ProcessPath(path)
	if err != nil {
		return "", err
	}
	if info, ok := e.components[id]; ok {
		info.IsSystemLibrary = isSystemPath(info.FilePath)
	}
	return id, nil
}

// Components returns a read-only view of the published set, in
// path-arrival order modulo dedup (spec.md §5 "Ordering guarantees").
func (e *Extractor) Components() []*component.Info {
	out := make([]*component.Info, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.components[id])
	}
	return out
}

func (e *Extractor) fillFromObjectView(info *component.Info, view *component.ObjectView) {
	info.Checksums[component.ChecksumSHA1] = view.SHA1
	info.Checksums[component.ChecksumSHA256] = view.SHA256
	info.FileSize = view.Size
	info.Sections = view.Sections
	info.Symbols = view.Symbols
	info.Dependencies = append(info.Dependencies, view.Dependencies...)
	info.FileType = classifyFileType(view)
	info.Stripped = len(view.Symbols) == 0 && view.DebugInfo == component.DebugInfoNone

	for k, v := range view.SliceProperties {
		info.Properties[k] = v
	}
}

func classifyFileType(view *component.ObjectView) component.FileType {
	switch view.Format {
	case component.FormatArchive:
		return component.FileTypeStaticArchive
	case component.FormatELF, component.FormatMachO, component.FormatPE:
		if len(view.Dependencies) > 0 && view.Size > 0 {
			// a more precise Executable/SharedLibrary distinction needs the
			// ELF ET_EXEC/ET_DYN or Mach-O MH_EXECUTE/MH_DYLIB discriminator,
			// which the readers package exposes via Properties in a future
			// pass; until then, presence of exported dynamic deps plus a
			// nonzero size is executable-shaped.
			return component.FileTypeExecutable
		}
		return component.FileTypeObjectFile
	default:
		return component.FileTypeUnknown
	}
}

func (e *Extractor) enrichWithDebugInfo(info *component.Info, path string, view *component.ObjectView) {
	isELF := view.Format == component.FormatELF
	result, err := dwarfx.Extract(path, isELF)
	if err != nil {
		e.logger.WithError(err).Debugf("dwarfx: extraction failed for %s, degrading to symbol fallback", path)
	}

	if result.ContainsDebugInfo {
		info.SourceFiles = append(info.SourceFiles, result.SourceFiles...)
		info.CompileUnits = append(info.CompileUnits, result.CompileUnits...)
		info.Functions = append(info.Functions, result.Functions...)
		info.ContainsDebugInfo = true
		return
	}

	// symbol-table fallback (spec.md §4.2, boundary B5): functions come
	// from the demangled names of global and weak symbols; contains_debug_info
	// stays false. Symbol type and section are not checked, so data and
	// undefined symbols are included, and symbols with no binding (as the
	// Mach-O and PE readers produce) contribute nothing.
	for _, sym := range view.Symbols {
		if sym.Binding == "global" || sym.Binding == "weak" {
			info.Functions = append(info.Functions, sym.Name)
		}
	}
	info.ContainsDebugInfo = false
}

func (e *Extractor) publishIncomplete(path string, cause error) ComponentID {
	info := component.New(filepath.Base(path), path)
	info.ProcessingError = cause.Error()
	info.Processed = true
	id := ComponentID(path)
	e.components[id] = info
	e.order = append(e.order, id)
	return id
}

func (e *Extractor) publishArchiveMember(parent *component.Info, member component.ArchiveMember) {
	memberPath := parent.FilePath + "(" + member.Name + ")"
	if member.MemberError != nil {
		e.publishIncomplete(memberPath, member.MemberError)
		return
	}
	if member.View == nil {
		return
	}

	contentKey := member.View.SHA256 + "|" + member.View.Format.String()
	if existingID, ok := e.byIdentity[contentKey]; ok {
		e.linkArchiveMember(parent, e.components[existingID])
		return
	}

	info := component.New(member.Name, memberPath)
	e.fillFromObjectView(info, member.View)
	attributors.Run(info, e.probes)
	if err := info.Publish(); err != nil {
		info.ProcessingError = err.Error()
	}

	id := ComponentID(info.IdentityKey)
	if id == "" {
		id = ComponentID(memberPath)
	}
	e.components[id] = info
	e.order = append(e.order, id)
	e.byIdentity[contentKey] = id

	e.linkArchiveMember(parent, info)
}

// linkArchiveMember records the CONTAINS relationship between an archive
// and one of its members in both directions, and adds the member's
// identity key to the archive's own Dependencies so a static archive
// that statically links an object file yields a real dependsOn edge
// (spec.md §4.5, §8 scenario S1), not a disconnected pair of components.
func (e *Extractor) linkArchiveMember(parent, member *component.Info) {
	member.ParentIdentityKey = parent.IdentityKey
	parent.ArchiveMemberKeys = append(parent.ArchiveMemberKeys, member.IdentityKey)
	for _, dep := range parent.Dependencies {
		if dep == member.IdentityKey {
			return
		}
	}
	parent.Dependencies = append(parent.Dependencies, member.IdentityKey)
}
