package graphql

import (
	"github.com/99designs/gqlgen/graphql/introspection"
)

func isIntrospection(v any) bool {
	switch v.(type) {
	case *introspection.Schema,
		*introspection.Type, introspection.Type,
		*introspection.Field, introspection.Field,
		*introspection.InputValue, introspection.InputValue,
		*introspection.EnumValue, introspection.EnumValue,
		*introspection.Directive, introspection.Directive:
		return true
	}
	return false
}

// introspectionField reads one field off gqlgen's introspection wrappers.
// Slices come back by value, so both forms are accepted.
func introspectionField(src any, name string, args map[string]any) any {
	switch v := src.(type) {
	case *introspection.Schema:
		return schemaField(v, name)
	case *introspection.Type:
		return typeField(v, name, args)
	case introspection.Type:
		return typeField(&v, name, args)
	case *introspection.Field:
		return fieldField(v, name)
	case introspection.Field:
		return fieldField(&v, name)
	case *introspection.InputValue:
		return inputValueField(v, name)
	case introspection.InputValue:
		return inputValueField(&v, name)
	case *introspection.EnumValue:
		return enumValueField(v, name)
	case introspection.EnumValue:
		return enumValueField(&v, name)
	case *introspection.Directive:
		return directiveField(v, name)
	case introspection.Directive:
		return directiveField(&v, name)
	}
	return nil
}

func schemaField(s *introspection.Schema, name string) any {
	switch name {
	case "description":
		return s.Description()
	case "types":
		return s.Types()
	case "queryType":
		return s.QueryType()
	case "mutationType":
		return s.MutationType()
	case "subscriptionType":
		return s.SubscriptionType()
	case "directives":
		return s.Directives()
	}
	return nil
}

func typeField(t *introspection.Type, name string, args map[string]any) any {
	switch name {
	case "kind":
		return t.Kind()
	case "name":
		return t.Name()
	case "description":
		return t.Description()
	case "specifiedByURL":
		return t.SpecifiedByURL()
	case "fields":
		return t.Fields(boolArg(args, "includeDeprecated"))
	case "interfaces":
		return t.Interfaces()
	case "possibleTypes":
		return t.PossibleTypes()
	case "enumValues":
		return t.EnumValues(boolArg(args, "includeDeprecated"))
	case "inputFields":
		return t.InputFields()
	case "ofType":
		return t.OfType()
	case "isOneOf":
		return t.IsOneOf()
	}
	return nil
}

func fieldField(f *introspection.Field, name string) any {
	switch name {
	case "name":
		return f.Name
	case "description":
		return f.Description()
	case "args":
		return f.Args
	case "type":
		return f.Type
	case "isDeprecated":
		return f.IsDeprecated()
	case "deprecationReason":
		return f.DeprecationReason()
	}
	return nil
}

func inputValueField(iv *introspection.InputValue, name string) any {
	switch name {
	case "name":
		return iv.Name
	case "description":
		return iv.Description()
	case "type":
		return iv.Type
	case "defaultValue":
		return iv.DefaultValue
	case "isDeprecated":
		return iv.IsDeprecated()
	case "deprecationReason":
		return iv.DeprecationReason()
	}
	return nil
}

func enumValueField(ev *introspection.EnumValue, name string) any {
	switch name {
	case "name":
		return ev.Name
	case "description":
		return ev.Description()
	case "isDeprecated":
		return ev.IsDeprecated()
	case "deprecationReason":
		return ev.DeprecationReason()
	}
	return nil
}

func directiveField(d *introspection.Directive, name string) any {
	switch name {
	case "name":
		return d.Name
	case "description":
		return d.Description()
	case "locations":
		return d.Locations
	case "args":
		return d.Args
	case "isRepeatable":
		return d.IsRepeatable
	}
	return nil
}

func boolArg(args map[string]any, name string) bool {
	b, _ := args[name].(bool)
	return b
}
