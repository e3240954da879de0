package vector

import (
	"context"

	"github.com/weaviate/weaviate/entities/models"
)

// Index class names. Each document type is partitioned into its own class so
// queries can fan out per topic.
const (
	ClassPolicyChunk = "PolicyChunk"
	ClassClaimChunk  = "ClaimChunk"
)

func ClassNames() []string {
	return []string{ClassPolicyChunk, ClassClaimChunk}
}

// SchemaClient defines the interface for Weaviate schema operations.
type SchemaClient interface {
	ClassExists(ctx context.Context, className string) (bool, error)
	CreateClass(ctx context.Context, class *models.Class) error
	GetClass(ctx context.Context, className string) (*models.Class, error)
	AddProperty(ctx context.Context, className string, property *models.Property) error
}

func chunkProperties() []*models.Property {
	return []*models.Property{
		{Name: "recordId", DataType: []string{"string"}},
		{Name: "content", DataType: []string{"text"}},
		{Name: "title", DataType: []string{"text"}},
		{Name: "parentId", DataType: []string{"string"}},
		{Name: "source", DataType: []string{"string"}},
		{Name: "chunkIndex", DataType: []string{"int"}},
		// Serialized citation payload; new metadata fields land inside it
		// without a schema migration.
		{Name: "citationInfo", DataType: []string{"text"}},
	}
}

// EnsureSchema checks that both index classes exist and creates or extends
// them as needed.
func EnsureSchema(ctx context.Context, client SchemaClient) error {
	for _, className := range ClassNames() {
		if err := ensureClass(ctx, client, className); err != nil {
			return err
		}
	}
	return nil
}

func ensureClass(ctx context.Context, client SchemaClient, className string) error {
	exists, err := client.ClassExists(ctx, className)
	if err != nil {
		return err
	}

	properties := chunkProperties()

	if !exists {
		class := &models.Class{
			Class:       className,
			Description: "A citation-ready chunk of an insurance document",
			Vectorizer:  "none",
			Properties:  properties,
		}
		return client.CreateClass(ctx, class)
	}

	class, err := client.GetClass(ctx, className)
	if err != nil {
		return err
	}

	existingProps := make(map[string]bool)
	for _, p := range class.Properties {
		existingProps[p.Name] = true
	}

	for _, p := range properties {
		if !existingProps[p.Name] {
			if err := client.AddProperty(ctx, className, p); err != nil {
				return err
			}
		}
	}

	return nil
}
