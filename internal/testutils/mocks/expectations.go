// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"context"
	"fmt"

	"go.uber.org/mock/gomock"

	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/entities/lancer"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/repositories/actor"
	actormock "github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/repositories/actor/mock"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/services/resolver"
	resolvermock "github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/services/resolver/mock"
)

// ExpectLibraryEntry sets up a resolver hit for the entry's lid and type
func ExpectLibraryEntry(mockResolver *resolvermock.MockService, entry *lancer.LibraryEntry) *gomock.Call {
	return mockResolver.EXPECT().
		FindByLID(gomock.Any(), &resolver.FindByLIDInput{LID: entry.LID, Type: entry.Type}).
		Return(&resolver.FindByLIDOutput{Entry: entry, Found: true}, nil)
}

// ExpectLibraryMiss sets up a resolver miss
func ExpectLibraryMiss(mockResolver *resolvermock.MockService, lid string, t lancer.ItemType) *gomock.Call {
	return mockResolver.EXPECT().
		FindByLID(gomock.Any(), &resolver.FindByLIDInput{LID: lid, Type: t}).
		Return(&resolver.FindByLIDOutput{}, nil)
}

// ExpectActorCreate sets up a create that assigns the given id
func ExpectActorCreate(mockRepo *actormock.MockRepository, id string) *gomock.Call {
	return mockRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input actor.CreateInput) (*actor.CreateOutput, error) {
			// Simulate repository behavior - it would set the id
			created := input.Actor.Clone()
			created.ID = id
			return &actor.CreateOutput{Actor: created}, nil
		})
}

// ExpectItemsCreate sets up an item create that numbers the new items
func ExpectItemsCreate(mockRepo *actormock.MockRepository, actorID string) *gomock.Call {
	return mockRepo.EXPECT().
		CreateItems(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input actor.CreateItemsInput) (*actor.CreateItemsOutput, error) {
			if input.ActorID != actorID {
				return nil, fmt.Errorf("unexpected actor %s", input.ActorID)
			}
			items := make([]lancer.Item, len(input.Items))
			for i, item := range input.Items {
				items[i] = item.Clone()
				items[i].ID = fmt.Sprintf("%s-item-%d", actorID, i+1)
			}
			return &actor.CreateItemsOutput{Items: items}, nil
		})
}
