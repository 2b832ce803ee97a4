package services

import (
	"testing"
	"time"

	"github.com/testdeckhq/testdeck/internal/models"
)

func TestInviteService_Create(t *testing.T) {
	db := testDB(t)
	owner := createUser(t, db, "Owner", "owner@example.com")
	project := createProject(t, db, owner, "Checkout")
	svc := NewInviteService(db)

	invite, err := svc.Create(owner.ID, project.ID, &CreateInviteRequest{
		Email: "invitee@example.com",
		Role:  models.RoleTester,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if invite.Status != models.InviteStatusPending {
		t.Errorf("Status = %q, expected PENDING", invite.Status)
	}
	if invite.Token == "" {
		t.Error("Token is empty")
	}
	if !invite.ExpiresAt.After(time.Now()) {
		t.Errorf("ExpiresAt = %v, expected in the future", invite.ExpiresAt)
	}

	// Duplicate pending invite for the same email conflicts.
	_, err = svc.Create(owner.ID, project.ID, &CreateInviteRequest{
		Email: "invitee@example.com",
		Role:  models.RoleViewer,
	})
	if appStatus(err) != 409 {
		t.Errorf("duplicate pending invite: expected 409, got %v", err)
	}
}

func TestInviteService_Create_Permissions(t *testing.T) {
	db := testDB(t)
	owner := createUser(t, db, "Owner", "owner@example.com")
	manager := createUser(t, db, "Manager", "manager@example.com")
	tester := createUser(t, db, "Tester", "tester@example.com")
	project := createProject(t, db, owner, "Checkout")
	addMember(t, db, manager, project, models.RoleManager)
	addMember(t, db, tester, project, models.RoleTester)
	svc := NewInviteService(db)

	if _, err := svc.Create(manager.ID, project.ID, &CreateInviteRequest{
		Email: "a@example.com", Role: models.RoleViewer,
	}); err != nil {
		t.Errorf("manager invite failed: %v", err)
	}

	_, err := svc.Create(tester.ID, project.ID, &CreateInviteRequest{
		Email: "b@example.com", Role: models.RoleViewer,
	})
	if appStatus(err) != 403 {
		t.Errorf("tester invite: expected 403, got %v", err)
	}

	// OWNER is never assignable by invite.
	_, err = svc.Create(owner.ID, project.ID, &CreateInviteRequest{
		Email: "c@example.com", Role: models.RoleOwner,
	})
	if appStatus(err) != 400 {
		t.Errorf("invite with OWNER role: expected 400, got %v", err)
	}
}

func TestInviteService_Accept(t *testing.T) {
	db := testDB(t)
	owner := createUser(t, db, "Owner", "owner@example.com")
	invitee := createUser(t, db, "Invitee", "invitee@example.com")
	project := createProject(t, db, owner, "Checkout")
	svc := NewInviteService(db)

	invite, err := svc.Create(owner.ID, project.ID, &CreateInviteRequest{
		Email: invitee.Email,
		Role:  models.RoleManager,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	accepted, err := svc.Accept(invitee.ID, invitee.Email, invite.ID)
	if err != nil {
		t.Fatalf("Accept() error = %v", err)
	}
	if accepted.Status != models.InviteStatusAccepted {
		t.Errorf("Status = %q, expected ACCEPTED", accepted.Status)
	}

	var membership models.UserOnProject
	if err := db.Where("user_id = ? AND project_id = ?", invitee.ID, project.ID).First(&membership).Error; err != nil {
		t.Fatalf("membership missing after accept: %v", err)
	}
	if membership.Role != models.RoleManager {
		t.Errorf("membership role = %q, expected MANAGER", membership.Role)
	}

	// Answering twice fails: the invite is no longer pending.
	if _, err := svc.Accept(invitee.ID, invitee.Email, invite.ID); appStatus(err) != 400 {
		t.Errorf("second accept: expected 400, got %v", err)
	}
}

func TestInviteService_Accept_UpdatesExistingMembership(t *testing.T) {
	db := testDB(t)
	owner := createUser(t, db, "Owner", "owner@example.com")
	invitee := createUser(t, db, "Invitee", "invitee@example.com")
	project := createProject(t, db, owner, "Checkout")
	addMember(t, db, invitee, project, models.RoleViewer)
	svc := NewInviteService(db)

	invite, err := svc.Create(owner.ID, project.ID, &CreateInviteRequest{
		Email: invitee.Email,
		Role:  models.RoleTester,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Accept(invitee.ID, invitee.Email, invite.ID); err != nil {
		t.Fatalf("Accept() error = %v", err)
	}

	var memberships []models.UserOnProject
	if err := db.Where("user_id = ? AND project_id = ?", invitee.ID, project.ID).Find(&memberships).Error; err != nil {
		t.Fatalf("load memberships: %v", err)
	}
	if len(memberships) != 1 {
		t.Fatalf("memberships = %d, expected the existing row updated in place", len(memberships))
	}
	if memberships[0].Role != models.RoleTester {
		t.Errorf("role = %q, expected TESTER", memberships[0].Role)
	}
}

func TestInviteService_Accept_AfterRemoval(t *testing.T) {
	db := testDB(t)
	owner := createUser(t, db, "Owner", "owner@example.com")
	member := createUser(t, db, "Member", "member@example.com")
	project := createProject(t, db, owner, "Checkout")
	addMember(t, db, member, project, models.RoleTester)
	svc := NewInviteService(db)

	if err := NewMemberService(db).Remove(owner.ID, project.ID, member.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	// A removed user can be invited back in; the old membership must not
	// linger in the unique index and block the new row.
	invite, err := svc.Create(owner.ID, project.ID, &CreateInviteRequest{
		Email: member.Email,
		Role:  models.RoleViewer,
	})
	if err != nil {
		t.Fatalf("Create() after removal error = %v", err)
	}
	if _, err := svc.Accept(member.ID, member.Email, invite.ID); err != nil {
		t.Fatalf("Accept() after removal error = %v", err)
	}

	var memberships []models.UserOnProject
	if err := db.Where("user_id = ? AND project_id = ?", member.ID, project.ID).Find(&memberships).Error; err != nil {
		t.Fatalf("load memberships: %v", err)
	}
	if len(memberships) != 1 {
		t.Fatalf("memberships = %d, expected exactly one after rejoin", len(memberships))
	}
	if memberships[0].Role != models.RoleViewer {
		t.Errorf("role = %q, expected VIEWER", memberships[0].Role)
	}
}

func TestInviteService_Accept_WrongAddressee(t *testing.T) {
	db := testDB(t)
	owner := createUser(t, db, "Owner", "owner@example.com")
	stranger := createUser(t, db, "Stranger", "stranger@example.com")
	project := createProject(t, db, owner, "Checkout")
	svc := NewInviteService(db)

	invite, err := svc.Create(owner.ID, project.ID, &CreateInviteRequest{
		Email: "invitee@example.com",
		Role:  models.RoleViewer,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := svc.Accept(stranger.ID, stranger.Email, invite.ID); appStatus(err) != 403 {
		t.Errorf("accept by stranger: expected 403, got %v", err)
	}
	if _, err := svc.Accept(stranger.ID, stranger.Email, 999); appStatus(err) != 404 {
		t.Errorf("accept of missing invite: expected 404, got %v", err)
	}
}

func TestInviteService_Decline(t *testing.T) {
	db := testDB(t)
	owner := createUser(t, db, "Owner", "owner@example.com")
	invitee := createUser(t, db, "Invitee", "invitee@example.com")
	project := createProject(t, db, owner, "Checkout")
	svc := NewInviteService(db)

	invite, err := svc.Create(owner.ID, project.ID, &CreateInviteRequest{
		Email: invitee.Email,
		Role:  models.RoleViewer,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	declined, err := svc.Decline(invitee.Email, invite.ID)
	if err != nil {
		t.Fatalf("Decline() error = %v", err)
	}
	if declined.Status != models.InviteStatusDeclined {
		t.Errorf("Status = %q, expected DECLINED", declined.Status)
	}

	var memberships int64
	db.Model(&models.UserOnProject{}).Where("user_id = ? AND project_id = ?", invitee.ID, project.ID).Count(&memberships)
	if memberships != 0 {
		t.Errorf("decline created a membership")
	}
}

func TestInviteService_LazyExpiry(t *testing.T) {
	db := testDB(t)
	owner := createUser(t, db, "Owner", "owner@example.com")
	invitee := createUser(t, db, "Invitee", "invitee@example.com")
	project := createProject(t, db, owner, "Checkout")
	svc := NewInviteService(db)

	invite, err := svc.Create(owner.ID, project.ID, &CreateInviteRequest{
		Email: invitee.Email,
		Role:  models.RoleViewer,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Backdate the expiry past the deadline.
	if err := db.Model(&models.ProjectInvite{}).Where("id = ?", invite.ID).
		Update("expires_at", time.Now().Add(-time.Hour)).Error; err != nil {
		t.Fatalf("backdate invite: %v", err)
	}

	// Accepting an overdue invite fails and marks it EXPIRED.
	if _, err := svc.Accept(invitee.ID, invitee.Email, invite.ID); appStatus(err) != 400 {
		t.Fatalf("accept of expired invite: expected 400, got %v", err)
	}
	var stored models.ProjectInvite
	if err := db.First(&stored, invite.ID).Error; err != nil {
		t.Fatalf("reload invite: %v", err)
	}
	if stored.Status != models.InviteStatusExpired {
		t.Errorf("Status = %q, expected EXPIRED", stored.Status)
	}
}

func TestInviteService_ListReceived_ExpiresOverdue(t *testing.T) {
	db := testDB(t)
	owner := createUser(t, db, "Owner", "owner@example.com")
	invitee := createUser(t, db, "Invitee", "invitee@example.com")
	project := createProject(t, db, owner, "Checkout")
	svc := NewInviteService(db)

	invite, err := svc.Create(owner.ID, project.ID, &CreateInviteRequest{
		Email: invitee.Email,
		Role:  models.RoleViewer,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := db.Model(&models.ProjectInvite{}).Where("id = ?", invite.ID).
		Update("expires_at", time.Now().Add(-time.Hour)).Error; err != nil {
		t.Fatalf("backdate invite: %v", err)
	}

	list, err := svc.ListReceived(invitee.Email, 1, 20)
	if err != nil {
		t.Fatalf("ListReceived() error = %v", err)
	}
	if len(list.Items) != 1 {
		t.Fatalf("Items = %d, expected 1", len(list.Items))
	}
	if list.Items[0].Status != models.InviteStatusExpired {
		t.Errorf("Status = %q, expected EXPIRED after lazy sweep", list.Items[0].Status)
	}
}

func TestInviteService_ListSent(t *testing.T) {
	db := testDB(t)
	owner := createUser(t, db, "Owner", "owner@example.com")
	other := createUser(t, db, "Other", "other@example.com")
	projectA := createProject(t, db, owner, "A")
	projectB := createProject(t, db, other, "B")
	svc := NewInviteService(db)

	if _, err := svc.Create(owner.ID, projectA.ID, &CreateInviteRequest{Email: "x@example.com", Role: models.RoleViewer}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Create(other.ID, projectB.ID, &CreateInviteRequest{Email: "y@example.com", Role: models.RoleViewer}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	list, err := svc.ListSent(owner.ID, 1, 20)
	if err != nil {
		t.Fatalf("ListSent() error = %v", err)
	}
	if list.Total != 1 {
		t.Errorf("Total = %d, expected only the caller's invites", list.Total)
	}

	if _, err := svc.ListSent(999, 1, 20); appStatus(err) != 404 {
		t.Errorf("ListSent for missing user: expected 404, got %v", err)
	}
}
