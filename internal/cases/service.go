// Package cases manages succession cases in the graph database and
// materializes engine input from the stored family facts.
package cases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/kazumasakawahara/inheritance-calculator/internal/core/model"
	"github.com/kazumasakawahara/inheritance-calculator/internal/driver"
)

type Case struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
}

// Relationship is one stored edge between two persons of a case.
// For CHILD_OF the direction is child -> parent; for RENOUNCED,
// DISQUALIFIED and DISINHERITED it is person -> decedent.
type Relationship struct {
	FromID    string `json:"from_person_id"`
	ToID      string `json:"to_person_id"`
	Type      string `json:"relationship_type"`
	BloodType string `json:"blood_type,omitempty"`
	IsCurrent bool   `json:"is_current,omitempty"`
}

type Service struct {
	Driver driver.GraphDriver
}

func NewService(d driver.GraphDriver) *Service {
	return &Service{Driver: d}
}

func (s *Service) CreateCase(ctx context.Context, title, description string) (*Case, error) {
	params := map[string]interface{}{
		"id":          uuid.New().String(),
		"title":       title,
		"description": description,
	}
	result, err := s.Driver.ExecuteQuery(ctx, driver.CreateCaseQuery, params)
	if err != nil {
		return nil, err
	}
	if len(result.Records) == 0 {
		return nil, fmt.Errorf("case was not created")
	}
	return caseFromRecord(result.Records[0]), nil
}

func (s *Service) GetCase(ctx context.Context, id string) (*Case, error) {
	result, err := s.Driver.ExecuteQuery(ctx, driver.GetCaseQuery, map[string]interface{}{"id": id})
	if err != nil {
		return nil, err
	}
	if len(result.Records) == 0 {
		return nil, fmt.Errorf("case not found: %s", id)
	}
	return caseFromRecord(result.Records[0]), nil
}

func (s *Service) ListCases(ctx context.Context) ([]*Case, error) {
	result, err := s.Driver.ExecuteQuery(ctx, driver.ListCasesQuery, nil)
	if err != nil {
		return nil, err
	}
	cases := make([]*Case, 0, len(result.Records))
	for _, rec := range result.Records {
		cases = append(cases, caseFromRecord(rec))
	}
	return cases, nil
}

func (s *Service) UpdateCaseStatus(ctx context.Context, id, status string) (*Case, error) {
	params := map[string]interface{}{"id": id, "status": status}
	result, err := s.Driver.ExecuteQuery(ctx, driver.UpdateCaseStatusQuery, params)
	if err != nil {
		return nil, err
	}
	if len(result.Records) == 0 {
		return nil, fmt.Errorf("case not found: %s", id)
	}
	return caseFromRecord(result.Records[0]), nil
}

func (s *Service) DeleteCase(ctx context.Context, id string) error {
	_, err := s.Driver.ExecuteQuery(ctx, driver.DeleteCaseQuery, map[string]interface{}{"id": id})
	return err
}

// AddPerson stores a person under a case, assigning an ID when the caller
// did not supply one.
func (s *Service) AddPerson(ctx context.Context, caseID string, p *model.Person) (*model.Person, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	params := map[string]interface{}{
		"case_id":              caseID,
		"id":                   p.ID,
		"name":                 p.Name,
		"is_alive":             p.Alive,
		"is_decedent":          p.IsDecedent,
		"birth_date":           formatDate(p.BirthDate),
		"death_date":           formatDate(p.DeathDate),
		"died_before_division": p.DiedBeforeDivision,
	}
	result, err := s.Driver.ExecuteQuery(ctx, driver.SavePersonQuery, params)
	if err != nil {
		return nil, err
	}
	if len(result.Records) == 0 {
		return nil, fmt.Errorf("case not found: %s", caseID)
	}
	return p, nil
}

func (s *Service) GetPersons(ctx context.Context, caseID string) ([]*model.Person, error) {
	result, err := s.Driver.ExecuteQuery(ctx, driver.GetPersonsByCaseQuery, map[string]interface{}{"case_id": caseID})
	if err != nil {
		return nil, err
	}
	persons := make([]*model.Person, 0, len(result.Records))
	for _, rec := range result.Records {
		persons = append(persons, personFromRecord(rec))
	}
	return persons, nil
}

func (s *Service) AddRelationship(ctx context.Context, rel Relationship) error {
	query, ok := driver.SaveRelationshipQuery(rel.Type)
	if !ok {
		return fmt.Errorf("unknown relationship type: %s", rel.Type)
	}
	params := map[string]interface{}{
		"from_id":       rel.FromID,
		"to_id":         rel.ToID,
		"blood_type":    nilIfEmpty(rel.BloodType),
		"is_current":    rel.IsCurrent,
		"is_biological": true,
	}
	result, err := s.Driver.ExecuteQuery(ctx, query, params)
	if err != nil {
		return err
	}
	if len(result.Records) == 0 {
		return fmt.Errorf("relationship endpoints not found: %s -> %s", rel.FromID, rel.ToID)
	}
	return nil
}

func (s *Service) GetRelationships(ctx context.Context, caseID string) ([]Relationship, error) {
	result, err := s.Driver.ExecuteQuery(ctx, driver.GetRelationshipsByCaseQuery, map[string]interface{}{"case_id": caseID})
	if err != nil {
		return nil, err
	}
	rels := make([]Relationship, 0, len(result.Records))
	for _, rec := range result.Records {
		rels = append(rels, relationshipFromRecord(rec))
	}
	return rels, nil
}

func caseFromRecord(rec *neo4j.Record) *Case {
	return &Case{
		ID:          stringValue(rec, "id"),
		Title:       stringValue(rec, "title"),
		Description: stringValue(rec, "description"),
		Status:      stringValue(rec, "status"),
	}
}

func personFromRecord(rec *neo4j.Record) *model.Person {
	return &model.Person{
		ID:                 stringValue(rec, "id"),
		Name:               stringValue(rec, "name"),
		Alive:              boolValue(rec, "is_alive"),
		IsDecedent:         boolValue(rec, "is_decedent"),
		BirthDate:          dateValue(rec, "birth_date"),
		DeathDate:          dateValue(rec, "death_date"),
		DiedBeforeDivision: boolValue(rec, "died_before_division"),
	}
}

func relationshipFromRecord(rec *neo4j.Record) Relationship {
	return Relationship{
		FromID:    stringValue(rec, "from_id"),
		ToID:      stringValue(rec, "to_id"),
		Type:      stringValue(rec, "type"),
		BloodType: stringValue(rec, "blood_type"),
		IsCurrent: boolValue(rec, "is_current"),
	}
}

func stringValue(rec *neo4j.Record, key string) string {
	v, _ := rec.Get(key)
	s, _ := v.(string)
	return s
}

func boolValue(rec *neo4j.Record, key string) bool {
	v, _ := rec.Get(key)
	b, _ := v.(bool)
	return b
}

func dateValue(rec *neo4j.Record, key string) *time.Time {
	s := stringValue(rec, key)
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

func formatDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format("2006-01-02")
}

func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
