package store

import (
	"errors"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestFilterDocument(t *testing.T) {
	id := NewID()

	cases := []struct {
		name   string
		filter Filter
		want   bson.D
	}{
		{
			name:   "match all",
			filter: MatchAll(),
			want:   bson.D{},
		},
		{
			name:   "eq",
			filter: Eq("email", "a@b.io"),
			want:   bson.D{{Key: "email", Value: "a@b.io"}},
		},
		{
			name:   "by id",
			filter: ByID(id),
			want:   bson.D{{Key: "_id", Value: id}},
		},
		{
			name:   "eq id field",
			filter: EqID("owner_id", id),
			want:   bson.D{{Key: "owner_id", Value: id}},
		},
		{
			name:   "contains quotes metacharacters",
			filter: Contains("title", "a.b*c"),
			want: bson.D{{Key: "title", Value: bson.Regex{
				Pattern: `a\.b\*c`,
				Options: "i",
			}}},
		},
		{
			name:   "and of two",
			filter: And(Eq("a", 1), Eq("b", 2)),
			want: bson.D{{Key: "$and", Value: bson.A{
				bson.D{{Key: "a", Value: 1}},
				bson.D{{Key: "b", Value: 2}},
			}}},
		},
		{
			name:   "or of two",
			filter: Or(Eq("a", 1), Eq("b", 2)),
			want: bson.D{{Key: "$or", Value: bson.A{
				bson.D{{Key: "a", Value: 1}},
				bson.D{{Key: "b", Value: 2}},
			}}},
		},
		{
			name:   "and elides empty operands",
			filter: And(MatchAll(), Eq("a", 1), MatchAll()),
			want:   bson.D{{Key: "a", Value: 1}},
		},
		{
			name:   "and of nothing matches all",
			filter: And(),
			want:   bson.D{},
		},
		{
			name:   "or of only empties matches all",
			filter: Or(MatchAll(), MatchAll()),
			want:   bson.D{},
		},
		{
			name:   "nested and-or",
			filter: And(Eq("owner_id", id), Or(Contains("title", "x"), Contains("description", "x"))),
			want: bson.D{{Key: "$and", Value: bson.A{
				bson.D{{Key: "owner_id", Value: id}},
				bson.D{{Key: "$or", Value: bson.A{
					bson.D{{Key: "title", Value: bson.Regex{Pattern: "x", Options: "i"}}},
					bson.D{{Key: "description", Value: bson.Regex{Pattern: "x", Options: "i"}}},
				}}},
			}}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.filter.Err(); err != nil {
				t.Fatalf("Err() = %v", err)
			}
			got := tc.filter.document()
			if got == nil {
				t.Fatal("document() returned nil")
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("document() = %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestFilterConstructionErrors(t *testing.T) {
	cases := []struct {
		name   string
		filter Filter
	}{
		{"eq empty field", Eq("", 1)},
		{"contains empty field", Contains("", "x")},
		{"negative skip", MatchAll().WithSkip(-1)},
		{"negative limit", MatchAll().WithLimit(-5)},
		{"sort empty field", MatchAll().WithSort(Key{Field: "", Order: Ascending})},
		{"and propagates operand error", And(Eq("a", 1), Eq("", 2))},
		{"or propagates operand error", Or(Contains("", "x"))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.filter.Err(); !errors.Is(err, ErrInvalidQuery) {
				t.Fatalf("Err() = %v, want ErrInvalidQuery", err)
			}
		})
	}
}

func TestFilterWithCopies(t *testing.T) {
	base := Eq("a", 1)
	paged := base.WithSkip(10).WithLimit(5).WithSort(Key{Field: "created_at", Order: Descending})

	if base.skip != 0 || base.limit != 0 || base.sort != nil {
		t.Fatal("With* mutated the receiver")
	}
	if paged.skip != 10 || paged.limit != 5 {
		t.Fatalf("pagination not carried: skip=%d limit=%d", paged.skip, paged.limit)
	}
	wantSort := bson.D{{Key: "created_at", Value: -1}}
	if !reflect.DeepEqual(paged.sortDocument(), wantSort) {
		t.Fatalf("sortDocument() = %#v, want %#v", paged.sortDocument(), wantSort)
	}
	if !reflect.DeepEqual(paged.document(), base.document()) {
		t.Fatal("With* changed the predicates")
	}
}
