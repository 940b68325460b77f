package service

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"travelku_backend/internals/constants"
	"travelku_backend/internals/features/affiliates/members/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.Member{}, &model.MemberClosure{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func registerChain(t *testing.T, s *HierarchyService) []*model.Member {
	t.Helper()

	tiers := []string{
		constants.TierPusat,
		constants.TierCabang,
		constants.TierMitra,
		constants.TierAgen,
		constants.TierReseller,
	}

	members := make([]*model.Member, 0, len(tiers))
	var parentID *uuid.UUID
	for i, tier := range tiers {
		m, err := s.RegisterMember(context.Background(), RegisterMemberInput{
			Name:     "Member " + tier,
			Email:    tier + "@travelku.id",
			Password: "rahasia-123",
			Tier:     tier,
			ParentID: parentID,
		})
		if err != nil {
			t.Fatalf("register member %d (%s): %v", i, tier, err)
		}
		members = append(members, m)
		parentID = &m.MemberID
	}
	return members
}

func TestRegisterMemberBuildsClosureChain(t *testing.T) {
	db := openTestDB(t)
	s := NewHierarchyService(db)
	members := registerChain(t, s)

	// ancestorsOf(M) = {(M,0)} ∪ {(A, L+1) : (A,L) ∈ ancestorsOf(parent)}
	for i, m := range members {
		rows, err := s.AncestorsOf(context.Background(), m.MemberID)
		if err != nil {
			t.Fatalf("ancestors of %d: %v", i, err)
		}
		if len(rows) != i+1 {
			t.Fatalf("member %d: expected %d ancestors, got %d", i, i+1, len(rows))
		}
		for l, row := range rows {
			if row.PathLength != l {
				t.Fatalf("member %d: ancestors not ordered by path length: %+v", i, rows)
			}
			if row.AncestorID != members[i-l].MemberID {
				t.Fatalf("member %d: ancestor at L=%d is %s, want %s", i, l, row.AncestorID, members[i-l].MemberID)
			}
		}
	}
}

func TestAncestorsOfHasExactlyOneSelfEdge(t *testing.T) {
	db := openTestDB(t)
	s := NewHierarchyService(db)
	members := registerChain(t, s)

	for _, m := range members {
		rows, err := s.AncestorsOf(context.Background(), m.MemberID)
		if err != nil {
			t.Fatalf("ancestors: %v", err)
		}
		selfEdges := 0
		for _, row := range rows {
			if row.PathLength == 0 {
				selfEdges++
				if row.AncestorID != m.MemberID {
					t.Fatalf("self edge points at %s, want %s", row.AncestorID, m.MemberID)
				}
			}
		}
		if selfEdges != 1 {
			t.Fatalf("expected exactly one self edge, got %d", selfEdges)
		}
	}
}

func TestAttachTwiceFailsWithIntegrityViolation(t *testing.T) {
	db := openTestDB(t)
	s := NewHierarchyService(db)
	members := registerChain(t, s)

	err := s.Attach(context.Background(), members[2].MemberID, &members[0].MemberID)
	if !errors.Is(err, ErrIntegrityViolation) {
		t.Fatalf("expected ErrIntegrityViolation, got %v", err)
	}

	// transaksi harus rollback utuh: jumlah edge member tidak berubah
	var count int64
	if err := db.Model(&model.MemberClosure{}).
		Where("member_closure_descendant_id = ?", members[2].MemberID).
		Count(&count).Error; err != nil {
		t.Fatalf("count edges: %v", err)
	}
	if count != 3 {
		t.Fatalf("closure edges changed after failed attach: %d", count)
	}
}

func TestDescendantsOfExcludesSelfAndOrders(t *testing.T) {
	db := openTestDB(t)
	s := NewHierarchyService(db)
	members := registerChain(t, s)

	rows, err := s.DescendantsOf(context.Background(), members[0].MemberID)
	if err != nil {
		t.Fatalf("descendants: %v", err)
	}
	if len(rows) != len(members)-1 {
		t.Fatalf("expected %d descendants, got %d", len(members)-1, len(rows))
	}
	for i, row := range rows {
		if row.PathLength != i+1 {
			t.Fatalf("descendants not ordered by path length: %+v", rows)
		}
		if row.MemberID == members[0].MemberID {
			t.Fatalf("descendants must exclude self")
		}
		if row.MemberTier != members[i+1].MemberTier {
			t.Fatalf("descendant %d tier = %s, want %s", i, row.MemberTier, members[i+1].MemberTier)
		}
	}
}

func TestRegisterMemberValidatesParentTier(t *testing.T) {
	db := openTestDB(t)
	s := NewHierarchyService(db)
	members := registerChain(t, s)

	// pusat tidak boleh punya parent
	_, err := s.RegisterMember(context.Background(), RegisterMemberInput{
		Name:     "Pusat Kedua",
		Email:    "pusat2@travelku.id",
		Password: "rahasia-123",
		Tier:     constants.TierPusat,
		ParentID: &members[0].MemberID,
	})
	if !errors.Is(err, ErrInvalidParentTier) {
		t.Fatalf("expected ErrInvalidParentTier for pusat with parent, got %v", err)
	}

	// parent harus di tier lebih tinggi
	_, err = s.RegisterMember(context.Background(), RegisterMemberInput{
		Name:     "Cabang Baru",
		Email:    "cabang2@travelku.id",
		Password: "rahasia-123",
		Tier:     constants.TierCabang,
		ParentID: &members[4].MemberID, // reseller
	})
	if !errors.Is(err, ErrInvalidParentTier) {
		t.Fatalf("expected ErrInvalidParentTier for inverted tiers, got %v", err)
	}

	// tier asal-asalan ditolak
	_, err = s.RegisterMember(context.Background(), RegisterMemberInput{
		Name:     "Aneh",
		Email:    "aneh@travelku.id",
		Password: "rahasia-123",
		Tier:     "supervisor",
	})
	if !errors.Is(err, ErrInvalidTier) {
		t.Fatalf("expected ErrInvalidTier, got %v", err)
	}
}

func TestRegisterMemberDuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	s := NewHierarchyService(db)

	in := RegisterMemberInput{
		Name:     "Pusat",
		Email:    "pusat@travelku.id",
		Password: "rahasia-123",
		Tier:     constants.TierPusat,
	}
	if _, err := s.RegisterMember(context.Background(), in); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := s.RegisterMember(context.Background(), in); !errors.Is(err, ErrDuplicateMember) {
		t.Fatalf("expected ErrDuplicateMember, got %v", err)
	}
}

func TestDeactivateKeepsClosureEdges(t *testing.T) {
	db := openTestDB(t)
	s := NewHierarchyService(db)
	members := registerChain(t, s)

	if err := s.Deactivate(context.Background(), members[3].MemberID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	rows, err := s.AncestorsOf(context.Background(), members[4].MemberID)
	if err != nil {
		t.Fatalf("ancestors: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("closure edges lost after deactivate: %d", len(rows))
	}

	if err := s.Deactivate(context.Background(), uuid.New()); !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}
