package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// StringList holds ingredient names. Older item documents and some clients
// send a single comma separated string instead of an array; both decode.
type StringList []string

// SplitList turns "a, b ,c" into [a b c], dropping empty parts.
func SplitList(value string) StringList {
	parts := strings.Split(value, ",")
	out := make(StringList, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// UnmarshalBSONValue accepts both string and array BSON types.
func (s *StringList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*s = nil
		return nil
	case bsontype.Array:
		var values []string
		if err := bson.UnmarshalValue(t, data, &values); err != nil {
			return err
		}
		*s = values
		return nil
	case bsontype.String:
		var value string
		if err := bson.UnmarshalValue(t, data, &value); err != nil {
			return err
		}
		*s = SplitList(value)
		return nil
	default:
		return fmt.Errorf("cannot decode %s into StringList", t)
	}
}

// MarshalBSONValue always stores the list as an array.
func (s StringList) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue([]string(s))
}

// UnmarshalJSON mirrors UnmarshalBSONValue for request bodies.
func (s *StringList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*s = nil
		return nil
	}
	if strings.HasPrefix(trimmed, "\"") {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		*s = SplitList(value)
		return nil
	}
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("ingredients must be a string or an array of strings: %w", err)
	}
	*s = values
	return nil
}
