package access

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-cms/pkg/domain"
)

func TestEvaluate_NilRuleAllows(t *testing.T) {
	contexts := []Context{
		{},
		{User: &domain.User{ID: "u1"}},
		{User: &domain.User{ID: "u1"}, Data: domain.Document{"a": 1}},
	}

	for _, ac := range contexts {
		decision, err := Evaluate(context.Background(), nil, ac)
		require.NoError(t, err)
		assert.True(t, decision.Allowed())
		_, filtered := decision.Filter()
		assert.False(t, filtered)
	}
}

func TestEvaluate_Decisions(t *testing.T) {
	tests := []struct {
		name        string
		rule        Rule
		wantAllowed bool
		wantFilter  domain.Where
	}{
		{
			name:        "allow",
			rule:        func(ctx context.Context, ac Context) (Decision, error) { return Allow(), nil },
			wantAllowed: true,
		},
		{
			name:        "deny",
			rule:        func(ctx context.Context, ac Context) (Decision, error) { return Deny(), nil },
			wantAllowed: false,
		},
		{
			name: "allow with filter",
			rule: func(ctx context.Context, ac Context) (Decision, error) {
				return AllowWhere(domain.Where{"authorId": ac.User.ID}), nil
			},
			wantAllowed: true,
			wantFilter:  domain.Where{"authorId": "u1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, err := Evaluate(context.Background(), tt.rule, Context{User: &domain.User{ID: "u1"}})
			require.NoError(t, err)
			assert.Equal(t, tt.wantAllowed, decision.Allowed())

			filter, ok := decision.Filter()
			if tt.wantFilter == nil {
				assert.False(t, ok)
			} else {
				require.True(t, ok)
				assert.Equal(t, tt.wantFilter, filter)
			}
		})
	}
}

func TestEvaluate_RuleErrorPropagates(t *testing.T) {
	ruleErr := errors.New("directory unavailable")
	rule := func(ctx context.Context, ac Context) (Decision, error) { return Decision{}, ruleErr }

	_, err := Evaluate(context.Background(), rule, Context{})
	assert.ErrorIs(t, err, ruleErr)
}

func TestMergeWhere(t *testing.T) {
	caller := domain.Where{"published": true}
	residual := domain.Where{"authorId": "u1"}

	tests := []struct {
		name     string
		caller   domain.Where
		residual domain.Where
		want     domain.Where
	}{
		{
			name:     "both present combine with AND",
			caller:   caller,
			residual: residual,
			want:     domain.Where{"AND": []domain.Where{caller, residual}},
		},
		{
			name:     "no caller filter uses residual directly",
			residual: residual,
			want:     residual,
		},
		{
			name:   "no residual keeps caller filter",
			caller: caller,
			want:   caller,
		},
		{
			name: "neither",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeWhere(tt.caller, tt.residual))
		})
	}
}
