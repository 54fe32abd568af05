package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestProductFilterDocument(t *testing.T) {
	tests := []struct {
		name   string
		filter ProductFilter
		want   bson.M
	}{
		{
			name:   "empty filter matches everything",
			filter: ProductFilter{},
			want:   bson.M{},
		},
		{
			name:   "name becomes a case-insensitive substring match",
			filter: ProductFilter{Name: "shirt"},
			want:   bson.M{"name": bson.M{"$regex": "shirt", "$options": "i"}},
		},
		{
			name:   "regex metacharacters in the name are literal",
			filter: ProductFilter{Name: "a+b"},
			want:   bson.M{"name": bson.M{"$regex": `a\+b`, "$options": "i"}},
		},
		{
			name:   "size matches one entry of the sizes array",
			filter: ProductFilter{Size: "XL"},
			want:   bson.M{"sizes": bson.M{"$elemMatch": bson.M{"size": "XL"}}},
		},
		{
			name:   "name and size combine as a conjunction",
			filter: ProductFilter{Name: "shirt", Size: "XL"},
			want: bson.M{
				"name":  bson.M{"$regex": "shirt", "$options": "i"},
				"sizes": bson.M{"$elemMatch": bson.M{"size": "XL"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.document())
		})
	}
}
