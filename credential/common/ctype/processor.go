package ctype

import (
	"fmt"

	"github.com/piprate/json-gold/ld"
)

// documentLoader caches remote contexts across canonicalization calls.
var documentLoader = ld.NewCachingDocumentLoader(ld.NewDefaultDocumentLoader(nil))

// ctypeVocab maps plain schema keys onto IRIs during normalization so that
// every key/value pair contributes a quad to the canonical form.
const ctypeVocab = "https://zcloak.network/ctype#"

// canonicalizeDocument normalizes a schema document to N-Quads with
// URDNA2015 so the ctype hash does not depend on key order or on which
// serializer produced the document.
func canonicalizeDocument(doc map[string]interface{}) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("failed to canonicalize document: document is nil")
	}

	options := ld.NewJsonLdOptions("")
	options.Format = "application/n-quads"
	options.Algorithm = ld.AlgorithmURDNA2015
	options.DocumentLoader = documentLoader

	input := toJSONLD(doc).(map[string]interface{})
	input["@context"] = map[string]interface{}{"@vocab": ctypeVocab}

	normalized, err := ld.NewJsonLdProcessor().Normalize(input, options)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize document: %w", err)
	}

	return []byte(normalized.(string)), nil
}

// toJSONLD rewrites a plain JSON value into a JSON-LD compatible form.
// Scalars other than strings are wrapped as typed @value nodes so they
// survive normalization instead of being dropped.
func toJSONLD(value interface{}) interface{} {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return nil
	case map[string]interface{}:
		result := make(map[string]interface{}, len(v))
		for key, val := range v {
			result[key] = toJSONLD(val)
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, val := range v {
			result[i] = toJSONLD(val)
		}
		return result
	case bool:
		return map[string]interface{}{
			"@value": fmt.Sprintf("%v", v),
			"@type":  "http://www.w3.org/2001/XMLSchema#boolean",
		}
	default:
		result := map[string]interface{}{
			"@value": fmt.Sprintf("%v", v),
			"@type":  "http://www.w3.org/2001/XMLSchema#string",
		}
		return result
	}
}
