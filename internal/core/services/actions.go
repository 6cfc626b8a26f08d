package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
)

// Identifier keys accepted for each service, most specific first.
var idKeys = map[domain.Service][]string{
	domain.ServiceMail:        {"message_id", "id"},
	domain.ServiceCalendar:    {"event_id", "id"},
	domain.ServiceStorage:     {"file_id", "id"},
	domain.ServiceSpreadsheet: {"spreadsheet_id", "id"},
	domain.ServiceDocument:    {"document_id", "id"},
}

// defaultActionTables builds the dispatch table for every capability service.
func defaultActionTables() map[domain.Service]actionTable {
	mail := crudTable(idKeys[domain.ServiceMail])
	mail.alias("send", "create")
	mail.alias("read", "list")
	mail.alias("search", "list")
	mail.alias("label", "update")

	calendar := crudTable(idKeys[domain.ServiceCalendar])
	calendar.alias("schedule", "create")
	calendar.alias("read", "list")

	storage := crudTable(idKeys[domain.ServiceStorage])
	storage.alias("search", "list")
	storage["upload"] = extension("upload")
	storage["download"] = extension("download")

	spreadsheet := crudTable(idKeys[domain.ServiceSpreadsheet])
	spreadsheet["read"] = extension("read_values")
	spreadsheet["write"] = extension("write_values")

	document := crudTable(idKeys[domain.ServiceDocument])
	document["append"] = extension("append_text")

	return map[domain.Service]actionTable{
		domain.ServiceMail:        mail,
		domain.ServiceCalendar:    calendar,
		domain.ServiceStorage:     storage,
		domain.ServiceSpreadsheet: spreadsheet,
		domain.ServiceDocument:    document,
	}
}

func (t actionTable) alias(name, target string) {
	t[name] = t[target]
}

// crudTable maps the uniform client surface.
func crudTable(keys []string) actionTable {
	return actionTable{
		"list": func(ctx context.Context, c driven.CapabilityClient, d domain.Details) (any, error) {
			return c.List(ctx, listOptions(d))
		},
		"get": func(ctx context.Context, c driven.CapabilityClient, d domain.Details) (any, error) {
			id, err := requireID(d, keys)
			if err != nil {
				return nil, err
			}
			return c.Get(ctx, id)
		},
		"create": func(ctx context.Context, c driven.CapabilityClient, d domain.Details) (any, error) {
			return c.Create(ctx, d)
		},
		"update": func(ctx context.Context, c driven.CapabilityClient, d domain.Details) (any, error) {
			id, err := requireID(d, keys)
			if err != nil {
				return nil, err
			}
			return c.Update(ctx, id, d.Without(keys...))
		},
		"delete": func(ctx context.Context, c driven.CapabilityClient, d domain.Details) (any, error) {
			id, err := requireID(d, keys)
			if err != nil {
				return nil, err
			}
			if err := c.Delete(ctx, id); err != nil {
				return nil, err
			}
			return map[string]any{"id": id, "deleted": true}, nil
		},
	}
}

// extension dispatches to a service-specific operation.
func extension(name string) handlerFunc {
	return func(ctx context.Context, c driven.CapabilityClient, d domain.Details) (any, error) {
		fn, ok := c.Extension(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s not provided by %s client", domain.ErrUnsupportedAction, name, c.Service())
		}
		return fn(ctx, d)
	}
}

func listOptions(d domain.Details) driven.ListOptions {
	return driven.ListOptions{
		MaxResults: d.Int("max_results", defaultMaxResults),
		Query:      d.String("query", ""),
		Filters:    d.Without("max_results", "query"),
	}
}

func requireID(d domain.Details, keys []string) (string, error) {
	for _, k := range keys {
		if id := d.String(k, ""); id != "" {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: missing %s", domain.ErrInvalidInput, keys[0])
}
