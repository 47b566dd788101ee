package graphql

import (
	"context"
	"strings"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/errcode"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

const (
	errDepthLimit      = "DEPTH_LIMIT_EXCEEDED"
	errComplexityLimit = "COMPLEXITY_LIMIT_EXCEEDED"
)

func init() {
	// Both are rejected before execution, like a validation failure.
	errcode.RegisterErrorType(errDepthLimit, errcode.KindProtocol)
	errcode.RegisterErrorType(errComplexityLimit, errcode.KindProtocol)
}

// DepthLimit rejects operations nested deeper than limit. Introspection
// fields do not count.
func DepthLimit(limit int) graphql.HandlerExtension {
	return depthLimit{limit: limit}
}

type depthLimit struct {
	limit int
}

var _ interface {
	graphql.OperationContextMutator
	graphql.HandlerExtension
} = depthLimit{}

func (depthLimit) ExtensionName() string { return "DepthLimit" }

func (depthLimit) Validate(graphql.ExecutableSchema) error { return nil }

func (d depthLimit) MutateOperationContext(_ context.Context, opCtx *graphql.OperationContext) *gqlerror.Error {
	depth := selectionDepth(opCtx.Operation.SelectionSet, 0)
	if depth <= d.limit {
		return nil
	}
	err := gqlerror.Errorf("query depth %d exceeds the limit of %d", depth, d.limit)
	errcode.Set(err, errDepthLimit)
	return err
}

// selectionDepth returns the nesting depth of set.
func selectionDepth(set ast.SelectionSet, depth int) int {
	deepest := depth
	for _, sel := range set {
		var d int
		switch s := sel.(type) {
		case *ast.Field:
			if strings.HasPrefix(s.Name, "__") {
				continue
			}
			d = depth + 1
			if len(s.SelectionSet) > 0 {
				d = selectionDepth(s.SelectionSet, depth+1)
			}
		case *ast.InlineFragment:
			d = selectionDepth(s.SelectionSet, depth)
		case *ast.FragmentSpread:
			if s.Definition != nil {
				d = selectionDepth(s.Definition.SelectionSet, depth)
			}
		}
		if d > deepest {
			deepest = d
		}
	}
	return deepest
}
