package config

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Yamashou/gqlbuilder/client"
	"github.com/Yamashou/gqlbuilder/introspection"
)

func introspectionSchema(ctx context.Context, httpClient *http.Client, endpoint string, header http.Header) (*introspection.Schema, error) {
	gqlClient := client.NewClient(endpoint, client.WithHTTPClient(httpClient), client.WithHTTPHeader(header))

	var res introspection.Query
	if err := gqlClient.Post(ctx, "IntrospectionQuery", introspection.Introspection, nil, &res); err != nil {
		return nil, fmt.Errorf("introspection query failed: %w", err)
	}

	schema := &res.Schema
	if len(schema.Types) == 0 {
		return nil, errors.New("introspection result contains no types")
	}

	if schema.QueryType == nil {
		if _, ok := schema.Types.NameMap()["Query"]; ok {
			name := "Query"
			schema.QueryType = &introspection.TypeName{Name: &name}
		}
	}

	return schema, nil
}
