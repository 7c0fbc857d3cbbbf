package inquiries

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mussa52/madalali-tz/internal/access"
	"github.com/mussa52/madalali-tz/pkg/db/models"
	"github.com/mussa52/madalali-tz/pkg/enums"
	pkgerrors "github.com/mussa52/madalali-tz/pkg/errors"
)

func clientPrincipal() *access.Principal {
	return &access.Principal{ID: uuid.New(), Email: "client@example.com", Role: enums.UserRoleClient}
}

func agentPrincipal() *access.Principal {
	return &access.Principal{ID: uuid.New(), Email: "agent@example.com", Role: enums.UserRoleAgent}
}

func adminPrincipal() *access.Principal {
	return &access.Principal{ID: uuid.New(), Email: "admin@example.com", Role: enums.UserRoleAdmin}
}

func buildTestService(t *testing.T, repo *stubInquiryRepo, props *stubPropertyFinder) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, Properties: props})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestCreateRequiresApprovedProperty(t *testing.T) {
	repo := newStubInquiryRepo()
	props := newStubPropertyFinder()
	svc := buildTestService(t, repo, props)
	client := clientPrincipal()

	for _, status := range []enums.PropertyStatus{enums.PropertyStatusPending, enums.PropertyStatusRejected} {
		id := props.seed(uuid.New(), status)
		_, err := svc.Create(context.Background(), client, CreateRequest{
			PropertyID: id, Subject: "Viewing", Message: "Is it available?",
		})
		if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeDomainRule {
			t.Fatalf("expected domain rule for %s, got %v", status, err)
		}
	}
}

func TestCreateSnapshotsAgentID(t *testing.T) {
	repo := newStubInquiryRepo()
	props := newStubPropertyFinder()
	agentID := uuid.New()
	propertyID := props.seed(agentID, enums.PropertyStatusApproved)
	svc := buildTestService(t, repo, props)
	client := clientPrincipal()

	dto, err := svc.Create(context.Background(), client, CreateRequest{
		PropertyID: propertyID, Subject: "Viewing", Message: "Is it available?",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.AgentID != agentID {
		t.Fatalf("expected agent snapshot %s, got %s", agentID, dto.AgentID)
	}
	if dto.ClientID != client.ID {
		t.Fatalf("expected client %s, got %s", client.ID, dto.ClientID)
	}
	if dto.Status != enums.InquiryStatusNew {
		t.Fatalf("expected new status, got %s", dto.Status)
	}

	// Reassigning the property later must not move the conversation.
	props.properties[propertyID].AgentID = uuid.New()
	reloaded, err := svc.Get(context.Background(), client, dto.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if reloaded.AgentID != agentID {
		t.Fatalf("agent snapshot must be immutable, got %s", reloaded.AgentID)
	}
}

func TestCreateRejectsNonClients(t *testing.T) {
	props := newStubPropertyFinder()
	propertyID := props.seed(uuid.New(), enums.PropertyStatusApproved)
	svc := buildTestService(t, newStubInquiryRepo(), props)

	for _, p := range []*access.Principal{nil, agentPrincipal(), adminPrincipal()} {
		_, err := svc.Create(context.Background(), p, CreateRequest{PropertyID: propertyID, Subject: "s", Message: "m"})
		if err == nil {
			t.Fatalf("expected denial for %+v", p)
		}
	}
}

func TestCreateMissingPropertyIsNotFound(t *testing.T) {
	svc := buildTestService(t, newStubInquiryRepo(), newStubPropertyFinder())
	_, err := svc.Create(context.Background(), clientPrincipal(), CreateRequest{
		PropertyID: uuid.New(), Subject: "s", Message: "m",
	})
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetAutoMarksReadForOwningAgentOnly(t *testing.T) {
	repo := newStubInquiryRepo()
	agent := agentPrincipal()
	client := clientPrincipal()
	id := repo.seed(agent.ID, client.ID, enums.InquiryStatusNew)
	svc := buildTestService(t, repo, newStubPropertyFinder())

	// A client view does not advance the workflow.
	dto, err := svc.Get(context.Background(), client, id)
	if err != nil {
		t.Fatalf("client get: %v", err)
	}
	if dto.Status != enums.InquiryStatusNew {
		t.Fatalf("client view must not mark read, got %s", dto.Status)
	}

	dto, err = svc.Get(context.Background(), agent, id)
	if err != nil {
		t.Fatalf("agent get: %v", err)
	}
	if dto.Status != enums.InquiryStatusRead {
		t.Fatalf("expected auto new->read, got %s", dto.Status)
	}

	// A second view leaves it at read.
	dto, err = svc.Get(context.Background(), agent, id)
	if err != nil {
		t.Fatalf("agent second get: %v", err)
	}
	if dto.Status != enums.InquiryStatusRead {
		t.Fatalf("second view must not change status, got %s", dto.Status)
	}
}

func TestGetAccessMatrix(t *testing.T) {
	repo := newStubInquiryRepo()
	agent := agentPrincipal()
	client := clientPrincipal()
	id := repo.seed(agent.ID, client.ID, enums.InquiryStatusRead)
	svc := buildTestService(t, repo, newStubPropertyFinder())

	if _, err := svc.Get(context.Background(), adminPrincipal(), id); err != nil {
		t.Fatalf("admin get: %v", err)
	}
	if _, err := svc.Get(context.Background(), agentPrincipal(), id); err == nil ||
		pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for foreign agent, got %v", err)
	}
	if _, err := svc.Get(context.Background(), clientPrincipal(), id); err == nil ||
		pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for foreign client, got %v", err)
	}
}

func TestListScopeIsMandatory(t *testing.T) {
	repo := newStubInquiryRepo()
	agent := agentPrincipal()
	client := clientPrincipal()
	repo.seed(agent.ID, client.ID, enums.InquiryStatusNew)
	repo.seed(uuid.New(), uuid.New(), enums.InquiryStatusNew)
	svc := buildTestService(t, repo, newStubPropertyFinder())

	agentList, err := svc.List(context.Background(), agent, ListFilter{})
	if err != nil {
		t.Fatalf("agent list: %v", err)
	}
	if len(agentList) != 1 || agentList[0].AgentID != agent.ID {
		t.Fatalf("agent scope leak: %+v", agentList)
	}

	clientList, err := svc.List(context.Background(), client, ListFilter{})
	if err != nil {
		t.Fatalf("client list: %v", err)
	}
	if len(clientList) != 1 || clientList[0].ClientID != client.ID {
		t.Fatalf("client scope leak: %+v", clientList)
	}

	adminList, err := svc.List(context.Background(), adminPrincipal(), ListFilter{})
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(adminList) != 2 {
		t.Fatalf("expected admin to see all, got %d", len(adminList))
	}
}

func TestUpdateStatusRules(t *testing.T) {
	repo := newStubInquiryRepo()
	agent := agentPrincipal()
	client := clientPrincipal()
	id := repo.seed(agent.ID, client.ID, enums.InquiryStatusRead)
	svc := buildTestService(t, repo, newStubPropertyFinder())

	// Clients are always forbidden, even on their own inquiry.
	if _, err := svc.UpdateStatus(context.Background(), client, id, "responded"); err == nil ||
		pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for client, got %v", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), agentPrincipal(), id, "responded"); err == nil ||
		pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for foreign agent, got %v", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), agent, id, "archived"); err == nil ||
		pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}

	dto, err := svc.UpdateStatus(context.Background(), agent, id, "responded")
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if dto.Status != enums.InquiryStatusResponded {
		t.Fatalf("expected responded, got %s", dto.Status)
	}

	dto, err = svc.UpdateStatus(context.Background(), adminPrincipal(), id, "closed")
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if dto.Status != enums.InquiryStatusClosed {
		t.Fatalf("expected closed, got %s", dto.Status)
	}
}

func TestDeleteRules(t *testing.T) {
	repo := newStubInquiryRepo()
	agent := agentPrincipal()
	client := clientPrincipal()
	id := repo.seed(agent.ID, client.ID, enums.InquiryStatusNew)
	svc := buildTestService(t, repo, newStubPropertyFinder())

	// The owning agent cannot delete the conversation.
	if err := svc.Delete(context.Background(), agent, id); err == nil ||
		pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for agent, got %v", err)
	}
	if err := svc.Delete(context.Background(), clientPrincipal(), id); err == nil ||
		pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for foreign client, got %v", err)
	}
	if err := svc.Delete(context.Background(), client, id); err != nil {
		t.Fatalf("owning client delete: %v", err)
	}

	other := repo.seed(uuid.New(), uuid.New(), enums.InquiryStatusNew)
	if err := svc.Delete(context.Background(), adminPrincipal(), other); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}

func TestStatisticsScoping(t *testing.T) {
	repo := newStubInquiryRepo()
	agent := agentPrincipal()
	repo.seed(agent.ID, uuid.New(), enums.InquiryStatusNew)
	repo.seed(agent.ID, uuid.New(), enums.InquiryStatusResponded)
	repo.seed(uuid.New(), uuid.New(), enums.InquiryStatusNew)
	svc := buildTestService(t, repo, newStubPropertyFinder())

	agentStats, err := svc.Statistics(context.Background(), agent)
	if err != nil {
		t.Fatalf("agent statistics: %v", err)
	}
	if agentStats.Total != 2 {
		t.Fatalf("expected agent total 2, got %d", agentStats.Total)
	}

	adminStats, err := svc.Statistics(context.Background(), adminPrincipal())
	if err != nil {
		t.Fatalf("admin statistics: %v", err)
	}
	if adminStats.Total != 3 {
		t.Fatalf("expected admin total 3, got %d", adminStats.Total)
	}

	if _, err := svc.Statistics(context.Background(), clientPrincipal()); err == nil ||
		pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for client, got %v", err)
	}
}

type stubInquiryRepo struct {
	inquiries map[uuid.UUID]*models.Inquiry
}

func newStubInquiryRepo() *stubInquiryRepo {
	return &stubInquiryRepo{inquiries: make(map[uuid.UUID]*models.Inquiry)}
}

func (s *stubInquiryRepo) seed(agentID, clientID uuid.UUID, status enums.InquiryStatus) uuid.UUID {
	inquiry := &models.Inquiry{
		ID:         uuid.New(),
		PropertyID: uuid.New(),
		ClientID:   clientID,
		AgentID:    agentID,
		Subject:    "Viewing",
		Message:    "Is it available?",
		Status:     status,
	}
	s.inquiries[inquiry.ID] = inquiry
	return inquiry.ID
}

func (s *stubInquiryRepo) Create(ctx context.Context, inquiry *models.Inquiry) error {
	if inquiry.ID == uuid.Nil {
		inquiry.ID = uuid.New()
	}
	clone := *inquiry
	s.inquiries[inquiry.ID] = &clone
	return nil
}

func (s *stubInquiryRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Inquiry, error) {
	inquiry, ok := s.inquiries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *inquiry
	return &clone, nil
}

func (s *stubInquiryRepo) List(ctx context.Context, scope Scope, filter ListFilter) ([]models.Inquiry, error) {
	var out []models.Inquiry
	for _, inquiry := range s.inquiries {
		if scope.AgentID != nil && inquiry.AgentID != *scope.AgentID {
			continue
		}
		if scope.ClientID != nil && inquiry.ClientID != *scope.ClientID {
			continue
		}
		if filter.PropertyID != nil && inquiry.PropertyID != *filter.PropertyID {
			continue
		}
		if filter.Status != "" && inquiry.Status != filter.Status {
			continue
		}
		out = append(out, *inquiry)
	}
	return out, nil
}

func (s *stubInquiryRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.InquiryStatus) (*models.Inquiry, error) {
	inquiry, ok := s.inquiries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	inquiry.Status = status
	clone := *inquiry
	return &clone, nil
}

func (s *stubInquiryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.inquiries[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.inquiries, id)
	return nil
}

func (s *stubInquiryRepo) CountByStatus(ctx context.Context, scope Scope) ([]StatusCount, error) {
	counts := map[enums.InquiryStatus]int64{}
	for _, inquiry := range s.inquiries {
		if scope.AgentID != nil && inquiry.AgentID != *scope.AgentID {
			continue
		}
		if scope.ClientID != nil && inquiry.ClientID != *scope.ClientID {
			continue
		}
		counts[inquiry.Status]++
	}
	var out []StatusCount
	for status, count := range counts {
		out = append(out, StatusCount{Status: status, Count: count})
	}
	return out, nil
}

type stubPropertyFinder struct {
	properties map[uuid.UUID]*models.Property
}

func newStubPropertyFinder() *stubPropertyFinder {
	return &stubPropertyFinder{properties: make(map[uuid.UUID]*models.Property)}
}

func (s *stubPropertyFinder) seed(agentID uuid.UUID, status enums.PropertyStatus) uuid.UUID {
	property := &models.Property{
		ID:      uuid.New(),
		Title:   "Listing",
		AgentID: agentID,
		Status:  status,
	}
	s.properties[property.ID] = property
	return property.ID
}

func (s *stubPropertyFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	property, ok := s.properties[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return property, nil
}
