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

// Package sign implements the JSF-style canonicalize-then-sign subsystem
// of spec.md §4.5.1, used for CycloneDX 1.6+. Canonicalization follows
// RFC 8785 (JCS) via the upstream reference implementation rather than an
// ad-hoc serializer — spec.md §9 is explicit that interoperability with
// JSF verifiers depends on using the real algorithm, not a substitute.
package sign

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"

	"github.com/heimdall-sbom/heimdall/common"
)

// excludeWalk removes every field named exactly "signature" at any depth
// of doc, returning the pruned document and the sorted list of JSON
// pointer paths that were removed (spec.md §4.5.1 step 2).
func excludeWalk(doc map[string]interface{}) (map[string]interface{}, []string) {
	var excludes []string
	pruned := walkExclude(doc, "", &excludes)
	sort.Strings(excludes)
	return pruned.(map[string]interface{}), excludes
}

func walkExclude(node interface{}, path string, excludes *[]string) interface{} {
	switch v := node.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, val := range v {
			childPath := path + "/" + jsonPointerEscape(key)
			if key == "signature" {
				*excludes = append(*excludes, childPath)
				continue
			}
			out[key] = walkExclude(val, childPath, excludes)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = walkExclude(item, fmt.Sprintf("%s/%d", path, i), excludes)
		}
		return out
	default:
		return v
	}
}

func jsonPointerEscape(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '~':
			out = append(out, '~', '0')
		case '/':
			out = append(out, '~', '1')
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}

// Canonicalize implements spec.md §4.5.1 steps 1-3: parse, strip
// "signature" fields, and re-serialize under RFC 8785 (JCS). It returns
// the canonical bytes and the sorted exclude list for use by Sign.
func Canonicalize(documentJSON []byte) ([]byte, []string, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(documentJSON, &doc); err != nil {
		return nil, nil, common.NewError(common.KindCanonicalizationFailed, "invalid JSON", err)
	}

	pruned, excludes := excludeWalk(doc)

	intermediate, err := json.Marshal(pruned)
	if err != nil {
		return nil, nil, common.NewError(common.KindCanonicalizationFailed, "re-marshal failed", err)
	}

	canonical, err := jsoncanonicalizer.Transform(intermediate)
	if err != nil {
		return nil, nil, common.NewError(common.KindCanonicalizationFailed, "JCS transform failed", err)
	}

	return canonical, excludes, nil
}
