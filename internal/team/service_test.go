package team_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	internal "github.com/frahmantamala/hrms-backend/internal"
	"github.com/frahmantamala/hrms-backend/internal/audit"
	"github.com/frahmantamala/hrms-backend/internal/team"
)

func TestTeam(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Team Suite")
}

// Mock repository for testing
type mockTeamRepository struct {
	teams      map[string]*team.Team           // by id
	members    map[string][]team.MemberRef     // team id -> members
	queryError error
	writeError error
}

func newMockTeamRepository() *mockTeamRepository {
	return &mockTeamRepository{
		teams:   make(map[string]*team.Team),
		members: make(map[string][]team.MemberRef),
	}
}

func (m *mockTeamRepository) GetByOrganisation(organisationID string) ([]*team.Team, error) {
	if m.queryError != nil {
		return nil, m.queryError
	}
	var result []*team.Team
	for _, t := range m.teams {
		if t.OrganisationID == organisationID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *mockTeamRepository) GetByIDAndOrganisation(id, organisationID string) (*team.Team, error) {
	if m.queryError != nil {
		return nil, m.queryError
	}
	t, exists := m.teams[id]
	if !exists || t.OrganisationID != organisationID {
		return nil, nil
	}
	return t, nil
}

func (m *mockTeamRepository) GetMembers(teamID, organisationID string) ([]team.MemberRef, error) {
	if m.queryError != nil {
		return nil, m.queryError
	}
	return m.members[teamID], nil
}

func (m *mockTeamRepository) NameExists(name, organisationID string) (bool, error) {
	if m.queryError != nil {
		return false, m.queryError
	}
	for _, t := range m.teams {
		if t.Name == name && t.OrganisationID == organisationID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockTeamRepository) NameExistsExcluding(name, organisationID, excludeID string) (bool, error) {
	if m.queryError != nil {
		return false, m.queryError
	}
	for _, t := range m.teams {
		if t.Name == name && t.OrganisationID == organisationID && t.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockTeamRepository) Create(t *team.Team) error {
	if m.writeError != nil {
		return m.writeError
	}
	m.teams[t.ID] = t
	return nil
}

func (m *mockTeamRepository) Update(t *team.Team) error {
	if m.writeError != nil {
		return m.writeError
	}
	m.teams[t.ID] = t
	return nil
}

func (m *mockTeamRepository) Delete(id string) error {
	if m.writeError != nil {
		return m.writeError
	}
	delete(m.teams, id)
	return nil
}

type mockRecorder struct {
	entries []audit.Entry
}

func (m *mockRecorder) Record(entry audit.Entry) {
	m.entries = append(m.entries, entry)
}

var _ = Describe("TeamService", func() {
	var (
		service   *team.Service
		mockRepo  *mockTeamRepository
		recorder  *mockRecorder
		principal *internal.Principal
	)

	validDTO := team.TeamDTO{Name: "Eng"}

	BeforeEach(func() {
		mockRepo = newMockTeamRepository()
		recorder = &mockRecorder{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = team.NewService(mockRepo, recorder, logger)
		principal = &internal.Principal{UserID: "user-1", OrganisationID: "org-1"}
	})

	Describe("CreateTeam", func() {
		It("should create a team scoped to the caller's organisation", func() {
			t, err := service.CreateTeam(principal, validDTO, audit.RequestMeta{})

			Expect(err).ToNot(HaveOccurred())
			Expect(t.ID).ToNot(BeEmpty())
			Expect(t.OrganisationID).To(Equal("org-1"))
			Expect(t.Members).To(BeEmpty())

			Expect(recorder.entries).To(HaveLen(1))
			Expect(recorder.entries[0].Action).To(Equal(audit.ActionCreate))
			Expect(recorder.entries[0].ResourceType).To(Equal(audit.ResourceTeam))
		})

		It("should reject a duplicate name within the organisation", func() {
			_, err := service.CreateTeam(principal, validDTO, audit.RequestMeta{})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.CreateTeam(principal, validDTO, audit.RequestMeta{})
			Expect(err).To(Equal(internal.ErrDuplicateTeam))
		})

		It("should allow the same name in a different organisation", func() {
			_, err := service.CreateTeam(principal, validDTO, audit.RequestMeta{})
			Expect(err).ToNot(HaveOccurred())

			other := &internal.Principal{UserID: "user-2", OrganisationID: "org-2"}
			_, err = service.CreateTeam(other, validDTO, audit.RequestMeta{})
			Expect(err).ToNot(HaveOccurred())
		})

		It("should reject an empty name", func() {
			_, err := service.CreateTeam(principal, team.TeamDTO{}, audit.RequestMeta{})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("ListTeams", func() {
		It("should attach members and member_count", func() {
			t, err := service.CreateTeam(principal, validDTO, audit.RequestMeta{})
			Expect(err).ToNot(HaveOccurred())
			mockRepo.members[t.ID] = []team.MemberRef{
				{ID: "e1", FirstName: "Jo", LastName: "Doe", Email: "jo@acme.com"},
			}

			teams, err := service.ListTeams(principal)
			Expect(err).ToNot(HaveOccurred())
			Expect(teams).To(HaveLen(1))
			Expect(teams[0].MemberCount).To(Equal(1))
			Expect(teams[0].Members[0].FirstName).To(Equal("Jo"))
		})

		It("should return an empty slice, not nil, for a fresh organisation", func() {
			teams, err := service.ListTeams(principal)
			Expect(err).ToNot(HaveOccurred())
			Expect(teams).ToNot(BeNil())
			Expect(teams).To(BeEmpty())
		})

		It("should not leak another organisation's teams", func() {
			_, err := service.CreateTeam(principal, validDTO, audit.RequestMeta{})
			Expect(err).ToNot(HaveOccurred())

			other := &internal.Principal{UserID: "user-2", OrganisationID: "org-2"}
			teams, err := service.ListTeams(other)
			Expect(err).ToNot(HaveOccurred())
			Expect(teams).To(BeEmpty())
		})
	})

	Describe("UpdateTeam", func() {
		It("should update fields on an owned team", func() {
			t, err := service.CreateTeam(principal, validDTO, audit.RequestMeta{})
			Expect(err).ToNot(HaveOccurred())

			desc := "Product engineering"
			updated, err := service.UpdateTeam(principal, t.ID, team.TeamDTO{Name: "Engineering", Description: &desc}, audit.RequestMeta{})

			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Name).To(Equal("Engineering"))
			Expect(*updated.Description).To(Equal("Product engineering"))
		})

		It("should let a team keep its own name", func() {
			t, err := service.CreateTeam(principal, validDTO, audit.RequestMeta{})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.UpdateTeam(principal, t.ID, validDTO, audit.RequestMeta{})
			Expect(err).ToNot(HaveOccurred())
		})

		It("should reject renaming to another team's name", func() {
			t1, err := service.CreateTeam(principal, validDTO, audit.RequestMeta{})
			Expect(err).ToNot(HaveOccurred())
			_, err = service.CreateTeam(principal, team.TeamDTO{Name: "Design"}, audit.RequestMeta{})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.UpdateTeam(principal, t1.ID, team.TeamDTO{Name: "Design"}, audit.RequestMeta{})
			Expect(err).To(Equal(internal.ErrDuplicateTeam))
		})

		It("should treat another organisation's team as missing", func() {
			t, err := service.CreateTeam(principal, validDTO, audit.RequestMeta{})
			Expect(err).ToNot(HaveOccurred())

			other := &internal.Principal{UserID: "user-2", OrganisationID: "org-2"}
			_, err = service.UpdateTeam(other, t.ID, validDTO, audit.RequestMeta{})
			Expect(err).To(Equal(internal.ErrTeamNotFound))
		})
	})

	Describe("DeleteTeam", func() {
		It("should delete an owned team and record it", func() {
			t, err := service.CreateTeam(principal, validDTO, audit.RequestMeta{})
			Expect(err).ToNot(HaveOccurred())
			recorder.entries = nil

			Expect(service.DeleteTeam(principal, t.ID, audit.RequestMeta{})).To(Succeed())

			Expect(mockRepo.teams).To(BeEmpty())
			Expect(recorder.entries).To(HaveLen(1))
			Expect(recorder.entries[0].Action).To(Equal(audit.ActionDelete))
		})

		It("should fail for an unknown id", func() {
			err := service.DeleteTeam(principal, "missing-id", audit.RequestMeta{})
			Expect(err).To(Equal(internal.ErrTeamNotFound))
		})
	})

	Describe("ListMembers", func() {
		It("should return members of an owned team", func() {
			t, err := service.CreateTeam(principal, validDTO, audit.RequestMeta{})
			Expect(err).ToNot(HaveOccurred())
			mockRepo.members[t.ID] = []team.MemberRef{{ID: "e1", FirstName: "Jo"}}

			members, err := service.ListMembers(principal, t.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(members).To(HaveLen(1))
		})

		It("should return an empty slice for a team with no members", func() {
			t, err := service.CreateTeam(principal, validDTO, audit.RequestMeta{})
			Expect(err).ToNot(HaveOccurred())

			members, err := service.ListMembers(principal, t.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(members).ToNot(BeNil())
			Expect(members).To(BeEmpty())
		})

		It("should treat another organisation's team as missing", func() {
			t, err := service.CreateTeam(principal, validDTO, audit.RequestMeta{})
			Expect(err).ToNot(HaveOccurred())

			other := &internal.Principal{UserID: "user-2", OrganisationID: "org-2"}
			_, err = service.ListMembers(other, t.ID)
			Expect(err).To(Equal(internal.ErrTeamNotFound))
		})
	})

	Describe("storage failures", func() {
		It("should wrap list errors as internal", func() {
			mockRepo.queryError = errors.New("connection reset")

			_, err := service.ListTeams(principal)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
		})
	})
})
