package service_test

import (
	"context"

	"github.com/seguikro/cotisations/internal/mock"
	"github.com/seguikro/cotisations/internal/query"
	"github.com/seguikro/cotisations/internal/store"
	"github.com/seguikro/cotisations/models"
	"go.uber.org/mock/gomock"
)

const (
	memberID = "01927a6e-7c1f-7000-8000-0000000000a1"
	otherID  = "01927a6e-7c1f-7000-8000-0000000000a2"
	adminID  = "01927a6e-7c1f-7000-8000-0000000000ad"
	groupID  = "01927a6e-7c1f-7000-8000-0000000000b1"
	cotisID  = "01927a6e-7c1f-7000-8000-0000000000c1"
	txID     = "01927a6e-7c1f-7000-8000-0000000000d1"
)

var (
	member = models.User{ID: memberID, Name: "Ada", Surname: "Lovelace", Email: "ada@example.com", Role: models.RoleMember, Active: true}
	other  = models.User{ID: otherID, Name: "Alan", Surname: "Turing", Email: "alan@example.com", Role: models.RoleMember, Active: true}
	admin  = models.User{ID: adminID, Name: "Grace", Surname: "Hopper", Email: "grace@example.com", Role: models.RoleAdmin, Active: true}
)

func ptr[T any](v T) *T { return &v }

// runUnitOfWork makes uow execute its callback against repos, the way the
// real implementation does inside a transaction.
func runUnitOfWork(uow *mock.MockUnitOfWork, repos store.Repositories) *gomock.Call {
	return uow.EXPECT().Do(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, fn func(store.Repositories) error) error {
			return fn(repos)
		},
	)
}

// captureSpec records the spec passed to DocumentFinder.Find.
func captureSpec(finder *mock.MockDocumentFinder, docs []query.Document, spec *query.Spec) *gomock.Call {
	return finder.EXPECT().Find(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ query.Collection, s query.Spec) ([]query.Document, error) {
			*spec = s
			return docs, nil
		},
	)
}

func conditionFields(spec query.Spec) map[string][]any {
	out := make(map[string][]any, len(spec.Conditions))
	for _, c := range spec.Conditions {
		out[c.Field.Name] = c.Values
	}
	return out
}
