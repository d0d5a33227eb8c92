package domain

import "testing"

func TestBookAsCatalogItem(t *testing.T) {
	b := Book{ID: "b1", Title: "Calculus", Author: "Spivak", Description: "rigorous", Price: 59.99, CoverPath: "c.png"}
	item := b.AsCatalogItem()

	if item.Kind != KindBook {
		t.Fatalf("expected book kind, got %s", item.Kind)
	}
	if item.Subtitle != "Spivak" {
		t.Fatalf("author must project to subtitle, got %q", item.Subtitle)
	}
	if item.Purchased() {
		t.Fatal("projection must start unpurchased")
	}
}

func TestAudioBookAsCatalogItem(t *testing.T) {
	a := AudioBook{ID: "ab1", Title: "Dune", Author: "Herbert", Narrator: "Brick", Price: 25}
	item := a.AsCatalogItem()

	if item.Kind != KindAudioBook {
		t.Fatalf("expected audiobook kind, got %s", item.Kind)
	}
	if item.Subtitle != "Brick" {
		t.Fatalf("narrator must project to subtitle, got %q", item.Subtitle)
	}
}

func TestCourseAsCatalogItem(t *testing.T) {
	c := Course{ID: "c1", Title: "Databases", TeacherName: "Codd", Price: 199}
	item := c.AsCatalogItem()

	if item.Kind != KindCourse {
		t.Fatalf("expected course kind, got %s", item.Kind)
	}
	if item.Subtitle != "Codd" {
		t.Fatalf("teacher must project to subtitle, got %q", item.Subtitle)
	}
}

func TestGearItemAsCatalogItem(t *testing.T) {
	g := GearItem{ID: "g1", Title: "Hoodie", Price: 45, ImagePath: "h.png"}
	item := g.AsCatalogItem()

	if item.Kind != KindGear {
		t.Fatalf("expected gear kind, got %s", item.Kind)
	}
	if item.CoverPath != "h.png" {
		t.Fatalf("image path must project to cover path, got %q", item.CoverPath)
	}
	if item.Subtitle != "" {
		t.Fatalf("gear has no subtitle, got %q", item.Subtitle)
	}
}

func TestCatalogItemPurchased(t *testing.T) {
	item := CatalogItem{ID: "b1"}
	if item.Purchased() {
		t.Fatal("no confirmation means not purchased")
	}
	item.OrderConfirmation = "OC-123"
	if !item.Purchased() {
		t.Fatal("confirmation means purchased")
	}
}

func TestPurchaseRecordTotal(t *testing.T) {
	p := PurchaseRecord{WalletAmount: 30, ExternalAmount: 15}
	if p.Total() != 45 {
		t.Fatalf("expected 45, got %v", p.Total())
	}
}

func TestInstallmentPlanRemaining(t *testing.T) {
	plan := InstallmentPlan{MonthsTotal: 6, MonthsPaid: 2}
	if plan.Remaining() != 4 {
		t.Fatalf("expected 4 remaining, got %d", plan.Remaining())
	}
	plan.MonthsPaid = 7
	if plan.Remaining() != 0 {
		t.Fatalf("overpaid plan must report 0 remaining, got %d", plan.Remaining())
	}
}

func TestEnrollmentID(t *testing.T) {
	if EnrollmentID("u1", "c1") != "u1c1" {
		t.Fatalf("unexpected composite id %q", EnrollmentID("u1", "c1"))
	}
	app := NewEnrollmentApplication("u1", "c1", "m", "n", "p")
	if app.ID != "u1c1" {
		t.Fatalf("application ID mismatch: %q", app.ID)
	}
	if app.Status != EnrollmentPending {
		t.Fatalf("new applications start pending, got %s", app.Status)
	}
}

func TestReviewIsReply(t *testing.T) {
	if (Review{}).IsReply() {
		t.Fatal("top-level review is not a reply")
	}
	if !(Review{ParentReviewID: 7}).IsReply() {
		t.Fatal("review with parent is a reply")
	}
}
