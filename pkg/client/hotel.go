package client

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"stayledger/pkg/model"
)

// ErrRoomNotFound and ErrHotelNotFound translate the catalog's 404 responses.
var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrHotelNotFound = errors.New("hotel not found")
)

// HotelClient talks to the hotel catalog service. The reservation ledger uses
// it to resolve rooms and owning hotels before creating holds.
type HotelClient struct {
	httpClient *HttpClient
}

func NewHotelClient(baseURL string) *HotelClient {
	return &HotelClient{
		httpClient: NewHttpClient(baseURL),
	}
}

type envelope[T any] struct {
	Data T `json:"data"`
}

func (c *HotelClient) GetRoom(id string) (*model.Room, error) {
	resp, err := c.httpClient.GET("/api/v1/rooms/id/" + url.PathEscape(id))
	if err != nil {
		return nil, fmt.Errorf("hotel catalog request failed: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrRoomNotFound
	default:
		return nil, fmt.Errorf("hotel catalog returned status %d", resp.StatusCode)
	}

	var body envelope[model.Room]
	if err := resp.DecodeJSON(&body); err != nil {
		return nil, fmt.Errorf("failed to decode room response: %w", err)
	}
	return &body.Data, nil
}

func (c *HotelClient) GetHotel(id string) (*model.Hotel, error) {
	resp, err := c.httpClient.GET("/api/v1/hotels/id/" + url.PathEscape(id))
	if err != nil {
		return nil, fmt.Errorf("hotel catalog request failed: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrHotelNotFound
	default:
		return nil, fmt.Errorf("hotel catalog returned status %d", resp.StatusCode)
	}

	var body envelope[model.Hotel]
	if err := resp.DecodeJSON(&body); err != nil {
		return nil, fmt.Errorf("failed to decode hotel response: %w", err)
	}
	return &body.Data, nil
}
