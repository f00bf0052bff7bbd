package svnctx

import (
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strings"
)

type xmlDiff struct {
	Paths []xmlPath `xml:"paths>path"`
}

type xmlPath struct {
	Item  string `xml:"item,attr"`
	Props string `xml:"props,attr"`
	Kind  string `xml:"kind,attr"`
	Path  string `xml:",chardata"`
}

var itemCodes = map[string]byte{
	"modified": CodeModified,
	"added":    CodeAdded,
	"deleted":  CodeDeleted,
	"none":     CodeNone,
}

// ParseSummaryXML parses the document printed by
// `svn diff --summarize --xml`.
func ParseSummaryXML(data []byte) ([]Change, error) {
	var doc xmlDiff
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing xml summary: %w", err)
	}

	changes := make([]Change, 0, len(doc.Paths))
	for _, p := range doc.Paths {
		path := strings.TrimSpace(p.Path)
		if path == "" {
			continue
		}
		changes = append(changes, Change{
			Code:     statusCode(p.Item),
			PropCode: statusCode(p.Props),
			Kind:     p.Kind,
			Path:     filepath.ToSlash(path),
		})
	}
	return changes, nil
}

// statusCode maps an XML status word onto the column code. Unknown words
// map to '?' so they are never mirrored.
func statusCode(word string) byte {
	if word == "" {
		return CodeNone
	}
	if code, ok := itemCodes[word]; ok {
		return code
	}
	return '?'
}
