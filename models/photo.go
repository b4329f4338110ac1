package models

import (
	"bytes"
	"errors"
	"strings"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// PhotoKind tells how a stored photo reference resolves to a URL.
type PhotoKind int

const (
	// PhotoUnresolvable cannot produce a URL (empty string, object without key, null, any other value).
	PhotoUnresolvable PhotoKind = iota
	// PhotoStorageKey is an object key in the photo bucket and needs signing.
	PhotoStorageKey
	// PhotoLegacyURL is an absolute URL stored by older clients, served as is.
	PhotoLegacyURL
)

const (
	PhotoStatusApproved = "approved"
	PhotoStatusRejected = "rejected"
)

type photoShape int

const (
	shapeOther photoShape = iota
	shapeString
	shapeObject
)

// Photo is one entry of a user's userPhoto list. Stored data holds either a bare
// string or a {key, bucket, url, status} object; the shape is resolved once on
// decode and kept so the entry re-encodes the way it was stored.
type Photo struct {
	Kind   PhotoKind
	Key    string
	Bucket string
	URL    string
	Status string

	shape photoShape
	// other holds an entry that is neither a string nor a document, as decoded.
	other interface{}
}

// photoDoc is the object form of a photo entry.
type photoDoc struct {
	Key    string `bson:"key,omitempty" json:"key,omitempty"`
	Bucket string `bson:"bucket,omitempty" json:"bucket,omitempty"`
	URL    string `bson:"url,omitempty" json:"url,omitempty"`
	Status string `bson:"status,omitempty" json:"status,omitempty"`
}

// NewStoredPhoto returns the object form of a photo entry.
func NewStoredPhoto(key, bucket, status string) Photo {
	return photoDoc{Key: key, Bucket: bucket, Status: status}.photo()
}

// PhotoFromString classifies a bare string entry: absolute URLs pass through,
// anything else non-empty is an object key.
func PhotoFromString(s string) Photo {
	p := Photo{shape: shapeString}
	switch {
	case s == "":
		p.Kind = PhotoUnresolvable
	case strings.HasPrefix(s, "http"):
		p.Kind = PhotoLegacyURL
		p.URL = s
	default:
		p.Kind = PhotoStorageKey
		p.Key = s
	}
	return p
}

func (d photoDoc) photo() Photo {
	p := Photo{Key: d.Key, Bucket: d.Bucket, URL: d.URL, Status: d.Status, shape: shapeObject}
	if d.Key != "" {
		p.Kind = PhotoStorageKey
	}
	return p
}

func (p Photo) doc() photoDoc {
	return photoDoc{Key: p.Key, Bucket: p.Bucket, URL: p.URL, Status: p.Status}
}

func (p Photo) str() string {
	if p.Kind == PhotoLegacyURL {
		return p.URL
	}
	return p.Key
}

// Approved reports whether the photo may be shown: status absent or "approved".
func (p Photo) Approved() bool {
	return p.Status == "" || p.Status == PhotoStatusApproved
}

// UnmarshalBSONValue implements bson.ValueUnmarshaler.
func (p *Photo) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.String:
		s, _, ok := bsoncore.ReadString(data)
		if !ok {
			return errors.New("malformed photo string")
		}
		*p = PhotoFromString(s)
	case bsontype.EmbeddedDocument:
		var d photoDoc
		if err := bson.Unmarshal(data, &d); err != nil {
			return err
		}
		*p = d.photo()
	case bsontype.Null, bsontype.Undefined:
		*p = Photo{}
	default:
		var v interface{}
		if err := (bson.RawValue{Type: t, Value: bytes.Clone(data)}).Unmarshal(&v); err != nil {
			return err
		}
		*p = Photo{other: v}
	}
	return nil
}

// MarshalBSONValue implements bson.ValueMarshaler.
func (p Photo) MarshalBSONValue() (bsontype.Type, []byte, error) {
	switch p.shape {
	case shapeString:
		return bson.MarshalValue(p.str())
	case shapeObject:
		return bson.MarshalValue(p.doc())
	default:
		if p.other == nil {
			return bsontype.Null, nil, nil
		}
		return bson.MarshalValue(p.other)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Photo) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = PhotoFromString(s)
	case len(data) > 0 && data[0] == '{':
		var d photoDoc
		if err := json.Unmarshal(data, &d); err != nil {
			return err
		}
		*p = d.photo()
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*p = Photo{}
	default:
		var v interface{}
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*p = Photo{other: v}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p Photo) MarshalJSON() ([]byte, error) {
	switch p.shape {
	case shapeString:
		return json.Marshal(p.str())
	case shapeObject:
		return json.Marshal(p.doc())
	default:
		if p.other == nil {
			return []byte("null"), nil
		}
		return json.Marshal(p.other)
	}
}
