package xmlfeed

import (
	"strings"

	"github.com/clbanning/mxj/v2"
	"github.com/upb/video-search-gateway/services/providers"
	"golang.org/x/net/html/charset"
)

const (
	attrPrefix = "-"
	textKey    = "#text"
)

func init() {
	// feeds are frequently served as GBK / GB2312
	mxj.XmlCharsetReader = charset.NewReaderLabel
}

// Decode parses an XML search response and returns up to limit tagged records.
// A document without rss.list.video is a valid empty result. limit <= 0 keeps all.
func Decode(body []byte, desc providers.Descriptor, limit int) ([]providers.Record, error) {
	m, err := mxj.NewMapXml(body)
	if err != nil {
		return nil, err
	}

	nodes := videoNodes(normalize(map[string]interface{}(m)))

	records := make([]providers.Record, 0, len(nodes))
	for _, n := range nodes {
		if limit > 0 && len(records) == limit {
			break
		}
		fields, ok := n.(map[string]interface{})
		if !ok {
			continue
		}
		rec := make(providers.Record, len(fields)+2)
		for k, v := range fields {
			rec[k] = v
		}
		rec[providers.FieldSource] = desc.Key
		rec[providers.FieldSourceName] = desc.Name
		records = append(records, rec)
	}

	return records, nil
}

// videoNodes walks rss.list.video. A single hit decodes as a bare object rather
// than a list, so it is wrapped here.
func videoNodes(tree interface{}) []interface{} {
	node := tree
	for _, key := range []string{"rss", "list", "video"} {
		m, ok := node.(map[string]interface{})
		if !ok {
			return nil
		}
		if node, ok = m[key]; !ok {
			return nil
		}
	}

	if list, ok := node.([]interface{}); ok {
		return list
	}
	return []interface{}{node}
}

// normalize drops attributes and collapses text-only elements to their text.
func normalize(v interface{}) interface{} {
	switch n := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(n))
		for k, child := range n {
			if strings.HasPrefix(k, attrPrefix) {
				continue
			}
			out[k] = normalize(child)
		}
		if text, ok := out[textKey]; ok && len(out) == 1 {
			return text
		}
		if len(out) == 0 {
			return ""
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(n))
		for i, child := range n {
			out[i] = normalize(child)
		}
		return out
	default:
		return v
	}
}
