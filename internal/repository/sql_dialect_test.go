package repository

import (
	"testing"
)

func TestDBDialectNameDefaultsToSQLite(t *testing.T) {
	if got := dbDialectName(nil); got != "sqlite" {
		t.Fatalf("nil db dialect want sqlite got %s", got)
	}
}

func TestLikeOperatorByDialect(t *testing.T) {
	if got := likeOperator(nil); got != "LIKE" {
		t.Fatalf("default like operator want LIKE got %s", got)
	}

	db, _ := setupInventoryTest(t)
	if got := likeOperator(db); got != "LIKE" {
		t.Fatalf("sqlite like operator want LIKE got %s", got)
	}
}
