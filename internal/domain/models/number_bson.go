package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// MarshalBSONValue stores unset numbers as BSON null.
func (n Num) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if !n.Valid {
		return bson.TypeNull, nil, nil
	}
	return bson.MarshalValue(n.Value)
}

// UnmarshalBSONValue reads doubles, integers, numeric strings and null.
func (n *Num) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeDouble:
		*n = NumOf(raw.Double())
	case bson.TypeInt32:
		*n = NumOf(float64(raw.Int32()))
	case bson.TypeInt64:
		*n = NumOf(float64(raw.Int64()))
	case bson.TypeString:
		*n = ParseNum(raw.StringValue())
	default:
		*n = Num{}
	}
	return nil
}
