package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"rookery/contexts/social-graph/relationship-service/application/commands"
	"rookery/contexts/social-graph/relationship-service/application/queries"
	"rookery/contexts/social-graph/relationship-service/domain/entities"
	httptransport "rookery/contexts/social-graph/relationship-service/transport/http"
)

type Handler struct {
	Relationships commands.RelationshipUseCase
	Queries       queries.RelationshipQueryUseCase
	Logger        *slog.Logger
}

func (h Handler) SendRequestHandler(
	ctx context.Context,
	requesterID string,
	requesterDisplayName string,
	req httptransport.SendRequestRequest,
) (httptransport.RelationshipResponse, error) {
	result, err := h.Relationships.SendRequest(ctx, commands.SendRequestCommand{
		RequesterID:          requesterID,
		RequesterDisplayName: requesterDisplayName,
		AddresseeID:          req.AddresseeID,
	})
	if err != nil {
		return httptransport.RelationshipResponse{}, err
	}
	return mapRelationship(result.Relationship), nil
}

func (h Handler) RespondRequestHandler(
	ctx context.Context,
	actorID string,
	actorDisplayName string,
	requesterID string,
	req httptransport.RespondRequestRequest,
) (httptransport.RelationshipResponse, error) {
	result, err := h.Relationships.RespondToRequest(ctx, commands.RespondToRequestCommand{
		ActorID:          actorID,
		ActorDisplayName: actorDisplayName,
		RequesterID:      requesterID,
		Action:           req.Action,
	})
	if err != nil {
		return httptransport.RelationshipResponse{}, err
	}
	return mapRelationship(result.Relationship), nil
}

func (h Handler) BlockActorHandler(
	ctx context.Context,
	blockerID string,
	req httptransport.BlockActorRequest,
) (httptransport.RelationshipResponse, error) {
	result, err := h.Relationships.BlockActor(ctx, commands.BlockActorCommand{
		BlockerID: blockerID,
		TargetID:  req.TargetID,
	})
	if err != nil {
		return httptransport.RelationshipResponse{}, err
	}
	return mapRelationship(result.Relationship), nil
}

func (h Handler) ListRelationshipsHandler(
	ctx context.Context,
	actorID string,
	status string,
) (httptransport.RelationshipListResponse, error) {
	relationships, err := h.Queries.ListRelationships(ctx, actorID, status)
	if err != nil {
		return httptransport.RelationshipListResponse{}, err
	}
	items := make([]httptransport.RelationshipResponse, 0, len(relationships))
	for _, relationship := range relationships {
		items = append(items, mapRelationship(relationship))
	}
	return httptransport.RelationshipListResponse{Items: items}, nil
}

func (h Handler) ListNotificationsHandler(
	ctx context.Context,
	recipientID string,
) (httptransport.NotificationListResponse, error) {
	notifications, err := h.Queries.ListNotifications(ctx, recipientID)
	if err != nil {
		return httptransport.NotificationListResponse{}, err
	}
	items := make([]httptransport.NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		items = append(items, httptransport.NotificationResponse{
			NotificationID: notification.NotificationID,
			RecipientID:    notification.RecipientID,
			Kind:           notification.Kind,
			Title:          notification.Title,
			Body:           notification.Body,
			Payload:        notification.Payload,
			Read:           notification.Read,
			CreatedAt:      notification.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return httptransport.NotificationListResponse{Items: items}, nil
}

func mapRelationship(relationship entities.Relationship) httptransport.RelationshipResponse {
	return httptransport.RelationshipResponse{
		RelationshipID: relationship.RelationshipID,
		RequesterID:    relationship.RequesterID,
		AddresseeID:    relationship.AddresseeID,
		Status:         string(relationship.Status),
		CreatedAt:      relationship.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      relationship.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
