package notify

import (
	"context"
	"time"

	gnt "github.com/dstotijn/go-notion"
)

// Notion appends each notification as a row in a Notion database, which gives
// the operator a searchable alert history next to the email/SMS pings.
type Notion struct {
	api        *gnt.Client
	databaseID string
}

func NewNotion(token, databaseID string) *Notion {
	return &Notion{
		api:        gnt.NewClient(token),
		databaseID: databaseID,
	}
}

// Ping tries a tiny QueryDatabase to see if the DB is reachable.
func (n *Notion) Ping(ctx context.Context) error {
	_, err := n.api.QueryDatabase(ctx, n.databaseID, &gnt.DatabaseQuery{
		PageSize: 1,
	})
	return err
}

// helper: build a valid Notion rich_text slice from a plain string.
func richText(s string) []gnt.RichText {
	if s == "" {
		return nil
	}
	return []gnt.RichText{
		{
			Text: &gnt.Text{
				Content: s,
			},
		},
	}
}

func (n *Notion) Send(ctx context.Context, message string) error {
	props := gnt.DatabasePageProperties{
		// "Alert" — Title (required title property)
		"Alert": gnt.DatabasePageProperty{
			Title: richText(truncate(message, 60)),
		},
		// "Message" — Text (rich_text), the full notification body
		"Message": gnt.DatabasePageProperty{
			RichText: richText(message),
		},
		// "Sent At" — Date
		"Sent At": gnt.DatabasePageProperty{
			Date: &gnt.Date{
				Start: gnt.NewDateTime(time.Now(), true),
			},
		},
	}

	_, err := n.api.CreatePage(ctx, gnt.CreatePageParams{
		ParentType:             gnt.ParentTypeDatabase,
		ParentID:               n.databaseID,
		DatabasePageProperties: &props,
	})
	return err
}
