package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/matzehuels/molview/pkg/layout"
)

func toBSON(t *testing.T, rec Record) bson.D {
	t.Helper()
	data, err := bson.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	var d bson.D
	if err := bson.Unmarshal(data, &d); err != nil {
		t.Fatal(err)
	}
	return d
}

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("save", func(mt *mtest.T) {
		s := newMongoStore(mt.Client, mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		rec, err := s.Save(ctx, NewRecord("ethanol", "CCO", layout.Generate("CCO")))
		if err != nil {
			mt.Fatalf("Save: %v", err)
		}
		if _, err := uuid.Parse(rec.ID); err != nil {
			mt.Errorf("ID %q is not a UUID", rec.ID)
		}
	})

	mt.Run("get", func(mt *mtest.T) {
		s := newMongoStore(mt.Client, mt.Coll)
		want := stamp(NewRecord("ethanol", "CCO", layout.Generate("CCO")), s.now())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, toBSON(mt.T, want)))

		got, err := s.Get(ctx, want.ID)
		if err != nil {
			mt.Fatalf("Get: %v", err)
		}
		if got.ID != want.ID || got.Name != want.Name || !got.CreatedAt.Equal(want.CreatedAt) {
			mt.Errorf("Get = %+v", got)
		}
		st, err := got.Decode()
		if err != nil || len(st.Atoms) != 3 || len(st.Bonds) != 2 {
			mt.Errorf("decoded structure: %v, %v", st, err)
		}
	})

	mt.Run("get missing", func(mt *mtest.T) {
		s := newMongoStore(mt.Client, mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		if _, err := s.Get(ctx, uuid.NewString()); !errors.Is(err, ErrNotFound) {
			mt.Errorf("Get: %v", err)
		}
	})

	mt.Run("list", func(mt *mtest.T) {
		s := newMongoStore(mt.Client, mt.Coll)
		a := stamp(NewRecord("a", "CC", layout.Generate("CC")), s.now())
		b := stamp(NewRecord("b", "CO", layout.Generate("CO")), s.now())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, toBSON(mt.T, b), toBSON(mt.T, a)))

		list, err := s.List(ctx, 10)
		if err != nil {
			mt.Fatalf("List: %v", err)
		}
		if got := names(list); len(got) != 2 || got[0] != "b" || got[1] != "a" {
			mt.Errorf("List = %v", got)
		}
	})

	mt.Run("delete", func(mt *mtest.T) {
		s := newMongoStore(mt.Client, mt.Coll)
		mt.AddMockResponses(
			bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 1}},
			bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}},
		)

		id := uuid.NewString()
		if err := s.Delete(ctx, id); err != nil {
			mt.Errorf("Delete: %v", err)
		}
		if err := s.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
			mt.Errorf("second Delete: %v", err)
		}
	})

	mt.Run("invalid id", func(mt *mtest.T) {
		s := newMongoStore(mt.Client, mt.Coll)
		if _, err := s.Get(ctx, "x"); !errors.Is(err, ErrInvalidID) {
			mt.Errorf("Get: %v", err)
		}
	})
}
