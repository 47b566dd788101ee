package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/introspection"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
	"github.com/heartmarshall/contracthub-backend/internal/service/profile"
	"github.com/heartmarshall/contracthub-backend/internal/transport/binding"
)

type profileService interface {
	Me(ctx context.Context) (domain.Document, error)
	Goals(ctx context.Context) ([]domain.Document, error)
	CreateGoal(ctx context.Context, input profile.GoalInput) (domain.Document, error)
}

// resolveFunc resolves one root field from its coerced arguments.
type resolveFunc func(ctx context.Context, args map[string]any) (any, error)

// ExecutableSchema serves the record collections to gqlgen's handler. Root
// fields call the services; everything below them is completed by walking
// the selection set over the returned documents.
type ExecutableSchema struct {
	schema *ast.Schema
	roots  map[string]resolveFunc
	intro  *introspection.Schema
	log    *slog.Logger
}

var _ graphql.ExecutableSchema = (*ExecutableSchema)(nil)

// NewExecutableSchema wires every registered collection to its query and
// mutation fields. profiles may be nil.
func NewExecutableSchema(schema *ast.Schema, cols *binding.Registry, profiles profileService, log *slog.Logger) *ExecutableSchema {
	e := &ExecutableSchema{
		schema: schema,
		roots:  make(map[string]resolveFunc),
		intro:  introspection.WrapSchema(schema),
		log:    log.With("component", "graphql"),
	}
	for _, col := range cols.All() {
		e.mountCollection(col)
	}
	if profiles != nil {
		e.roots["me"] = func(ctx context.Context, _ map[string]any) (any, error) {
			return profiles.Me(ctx)
		}
		e.roots["myGoals"] = func(ctx context.Context, _ map[string]any) (any, error) {
			return profiles.Goals(ctx)
		}
		e.roots["goalCreate"] = func(ctx context.Context, args map[string]any) (any, error) {
			name, _ := args["name"].(string)
			return profiles.CreateGoal(ctx, profile.GoalInput{Name: name})
		}
	}
	return e
}

func (e *ExecutableSchema) mountCollection(col binding.Collection) {
	one := string(col.Type())

	e.roots[col.Type().Collection()] = func(ctx context.Context, args map[string]any) (any, error) {
		filter := domain.ListFilter{Sort: stringArg(args, "sort")}
		filter.Limit, _ = intArg(args, "limit")
		filter.Offset, _ = intArg(args, "offset")
		return col.Find(ctx, filter)
	}
	e.roots[one] = func(ctx context.Context, args map[string]any) (any, error) {
		return col.Get(ctx, stringArg(args, "code"))
	}
	e.roots[one+"Create"] = func(ctx context.Context, args map[string]any) (any, error) {
		input, _ := args["input"].(map[string]any)
		return col.Create(ctx, input)
	}
	e.roots[one+"Update"] = func(ctx context.Context, args map[string]any) (any, error) {
		input, _ := args["input"].(map[string]any)
		return col.Update(ctx, stringArg(args, "code"), input)
	}
	e.roots[one+"Remove"] = func(ctx context.Context, args map[string]any) (any, error) {
		return col.Remove(ctx, stringArg(args, "code"))
	}
}

func (e *ExecutableSchema) Schema() *ast.Schema { return e.schema }

// Complexity weighs list queries by the page they ask for, so a wide page of
// deep documents costs more than a single record.
func (e *ExecutableSchema) Complexity(_ context.Context, typeName, field string, childComplexity int, args map[string]any) (int, bool) {
	if e.schema.Query == nil || typeName != e.schema.Query.Name {
		return 0, false
	}
	def := e.schema.Query.Fields.ForName(field)
	if def == nil || def.Type.Elem == nil {
		return 0, false
	}
	limit, _ := intArg(args, "limit")
	page := domain.ListFilter{Limit: limit}.Normalize().Limit
	return 1 + page*childComplexity, true
}

// Exec runs the operation gqlgen has already parsed, validated and coerced.
func (e *ExecutableSchema) Exec(ctx context.Context) graphql.ResponseHandler {
	opCtx := graphql.GetOperationContext(ctx)

	var root *ast.Definition
	switch opCtx.Operation.Operation {
	case ast.Query:
		root = e.schema.Query
	case ast.Mutation:
		root = e.schema.Mutation
	}
	if root == nil {
		return graphql.OneShot(graphql.ErrorResponse(ctx, "%s operations are not supported; change events are served on /ws", opCtx.Operation.Operation))
	}

	var ran bool
	return func(ctx context.Context) *graphql.Response {
		if ran {
			return nil
		}
		ran = true

		run := &execution{ExecutableSchema: e, ctx: ctx, op: opCtx}
		data := run.executeRoot(root, opCtx.Operation.SelectionSet)
		if run.failed > 0 {
			e.log.DebugContext(ctx, "graphql field errors", "operation", opCtx.OperationName, "count", run.failed)
		}

		raw, err := json.Marshal(data)
		if err != nil {
			graphql.AddError(ctx, fmt.Errorf("marshal graphql data: %w", err))
			return &graphql.Response{Data: []byte("null")}
		}
		return &graphql.Response{Data: raw}
	}
}

// execution holds the state of one operation run.
type execution struct {
	*ExecutableSchema
	ctx    context.Context
	op     *graphql.OperationContext
	failed int
}

func (x *execution) executeRoot(root *ast.Definition, set ast.SelectionSet) *object {
	fields := graphql.CollectFields(x.op, set, []string{root.Name})
	out := newObject(len(fields))

	// Root fields run one after another, which gives mutations their
	// required serial order.
	for _, cf := range fields {
		path := ast.Path{ast.PathName(cf.Alias)}

		var value any
		switch cf.Name {
		case "__typename":
			out.set(cf.Alias, root.Name)
			continue
		case "__schema", "__type":
			if x.op.DisableIntrospection {
				x.addError(cf.Field, path, errors.New("introspection disabled"))
				out.set(cf.Alias, nil)
				continue
			}
			if cf.Name == "__schema" {
				value = x.intro
			} else {
				name := stringArg(cf.ArgumentMap(x.op.Variables), "name")
				value = introspection.WrapTypeFromDef(x.schema, x.schema.Types[name])
			}
		default:
			v, err := x.resolveRoot(root, cf)
			if err != nil {
				x.addError(cf.Field, path, err)
				out.set(cf.Alias, nil)
				continue
			}
			value = v
		}

		completed, _ := x.completeValue(cf.Definition.Type, cf, value, path)
		out.set(cf.Alias, completed)
	}
	return out
}

// resolveRoot calls the service behind a root field through the handler's
// field middleware.
func (x *execution) resolveRoot(root *ast.Definition, cf graphql.CollectedField) (any, error) {
	resolve, ok := x.roots[cf.Name]
	if !ok {
		return nil, fmt.Errorf("field %q is not available", cf.Name)
	}

	fc := &graphql.FieldContext{
		Object:     root.Name,
		Field:      cf,
		Args:       cf.ArgumentMap(x.op.Variables),
		IsMethod:   true,
		IsResolver: true,
	}
	ctx := graphql.WithFieldContext(x.ctx, fc)
	next := func(ctx context.Context) (any, error) { return resolve(ctx, fc.Args) }
	if x.op.ResolverMiddleware == nil {
		return next(ctx)
	}
	return x.op.ResolverMiddleware(ctx, next)
}

// completeValue shapes v according to typ. ok is false when a non-null
// position resolved to null and the null must propagate to the parent.
func (x *execution) completeValue(typ *ast.Type, cf graphql.CollectedField, v any, path ast.Path) (any, bool) {
	v = force(v)
	if isNull(v) {
		if typ.NonNull {
			x.addError(cf.Field, path, errors.New("cannot return null for non-nullable field"))
			return nil, false
		}
		return nil, true
	}

	if typ.Elem != nil {
		items, ok := asList(v)
		if !ok {
			x.addError(cf.Field, path, fmt.Errorf("expected a list, got %T", v))
			return nil, !typ.NonNull
		}
		out := make([]any, len(items))
		for i, item := range items {
			c, ok := x.completeValue(typ.Elem, cf, item, append(append(ast.Path{}, path...), ast.PathIndex(i)))
			if !ok {
				return nil, !typ.NonNull
			}
			out[i] = c
		}
		return out, true
	}

	def := x.schema.Types[typ.NamedType]
	if def == nil {
		x.addError(cf.Field, path, fmt.Errorf("unknown type %q", typ.NamedType))
		return nil, !typ.NonNull
	}

	switch def.Kind {
	case ast.Scalar:
		s, err := serializeScalar(def.Name, v)
		if err != nil {
			x.addError(cf.Field, path, err)
			return nil, !typ.NonNull
		}
		return s, true

	case ast.Enum:
		return fmt.Sprint(v), true

	case ast.Object:
		obj, ok := x.executeObject(def, cf, v, path)
		if !ok {
			return nil, !typ.NonNull
		}
		return obj, true
	}

	x.addError(cf.Field, path, fmt.Errorf("cannot complete %s value", def.Kind))
	return nil, !typ.NonNull
}

func (x *execution) executeObject(def *ast.Definition, parent graphql.CollectedField, src any, path ast.Path) (*object, bool) {
	doc, isDoc := asMap(src)
	if !isDoc && !isIntrospection(src) {
		x.addError(parent.Field, path, fmt.Errorf("expected an object, got %T", src))
		return nil, false
	}

	fields := graphql.CollectFields(x.op, parent.Selections, []string{def.Name})
	out := newObject(len(fields))
	for _, cf := range fields {
		if cf.Name == "__typename" {
			out.set(cf.Alias, def.Name)
			continue
		}
		fieldDef := def.Fields.ForName(cf.Name)
		if fieldDef == nil {
			out.set(cf.Alias, nil)
			continue
		}

		var v any
		if isDoc {
			v = doc[cf.Name]
		} else {
			v = introspectionField(src, cf.Name, cf.ArgumentMap(x.op.Variables))
		}

		childPath := append(append(ast.Path{}, path...), ast.PathName(cf.Alias))
		completed, ok := x.completeValue(fieldDef.Type, cf, v, childPath)
		if !ok {
			return nil, false
		}
		out.set(cf.Alias, completed)
	}
	return out, true
}

// addError reports err at path through the handler's error presenter.
func (x *execution) addError(f *ast.Field, path ast.Path, err error) {
	x.failed++
	gqlErr := gqlerror.WrapPath(path, err)
	if f != nil && f.Position != nil {
		gqlErr.Locations = []gqlerror.Location{{Line: f.Position.Line, Column: f.Position.Column}}
	}
	graphql.AddError(x.ctx, gqlErr)
}

func stringArg(args map[string]any, name string) string {
	s, _ := args[name].(string)
	return s
}

func intArg(args map[string]any, name string) (int, bool) {
	n, ok := intValue(args[name])
	return int(n), ok
}
