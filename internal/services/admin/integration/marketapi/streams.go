package marketapi

import (
	"context"
	"net/http"
)

// StreamInput is the payload for creating or updating a stream link.
type StreamInput struct {
	Platform  string `json:"platform"`
	StreamURL string `json:"stream_url"`
	EmbedURL  string `json:"embed_url,omitempty"`
}

func (in StreamInput) withDefaults() StreamInput {
	if in.Platform == "" {
		in.Platform = "youtube"
	}
	return in
}

func streamsPath(auctionID string) string {
	return "/auctions/" + pathID(auctionID) + "/streams"
}

// ListStreams returns the stream links attached to an auction.
func (c *Client) ListStreams(ctx context.Context, auctionID string) ([]Stream, error) {
	streams, _, err := listOf[Stream](ctx, c, call{
		resource: "streams",
		method:   http.MethodGet,
		path:     streamsPath(auctionID),
		fallback: "Failed to fetch streams",
	}, "streams")
	return streams, err
}

// CreateStream attaches a stream link to an auction.
func (c *Client) CreateStream(ctx context.Context, auctionID string, input StreamInput) (Stream, error) {
	req, err := jsonCall("streams", http.MethodPost, streamsPath(auctionID), input.withDefaults(), "Failed to create stream")
	if err != nil {
		return Stream{}, err
	}
	var stream Stream
	err = c.doInto(ctx, req, &stream, "stream")
	return stream, err
}

// UpdateStream replaces a stream's link.
func (c *Client) UpdateStream(ctx context.Context, auctionID, streamID string, input StreamInput) (Stream, error) {
	req, err := jsonCall("streams", http.MethodPut, streamsPath(auctionID)+"/"+pathID(streamID), input.withDefaults(), "Failed to update stream")
	if err != nil {
		return Stream{}, err
	}
	var stream Stream
	err = c.doInto(ctx, req, &stream, "stream")
	return stream, err
}

// DeleteStream removes a stream link.
func (c *Client) DeleteStream(ctx context.Context, auctionID, streamID string) error {
	_, err := c.do(ctx, call{
		resource: "streams",
		method:   http.MethodDelete,
		path:     streamsPath(auctionID) + "/" + pathID(streamID),
		fallback: "Failed to delete stream",
	})
	return err
}

// StartStream puts a saved stream on air.
func (c *Client) StartStream(ctx context.Context, streamID string) error {
	_, err := c.do(ctx, call{
		resource: "streams",
		method:   http.MethodPost,
		path:     "/streams/" + pathID(streamID) + "/start",
		fallback: "Failed to start live stream",
	})
	return err
}

// StartAuctionStream puts the auction on air directly from a YouTube URL.
func (c *Client) StartAuctionStream(ctx context.Context, auctionID, youtubeURL string) error {
	req, err := jsonCall("streams", http.MethodPost, streamsPath(auctionID)+"/start",
		map[string]string{"youtube_url": youtubeURL}, "Failed to start stream")
	if err != nil {
		return err
	}
	_, err = c.do(ctx, req)
	return err
}

// EndAuctionStream takes the auction off air.
func (c *Client) EndAuctionStream(ctx context.Context, auctionID string) error {
	_, err := c.do(ctx, call{
		resource: "streams",
		method:   http.MethodPost,
		path:     streamsPath(auctionID) + "/end",
		fallback: "Failed to end stream",
	})
	return err
}
