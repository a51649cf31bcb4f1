package mockapi

import "github.com/fjod/go_cart/storefront/internal/domain"

const (
	DemoUsername = "demo"
	DemoPassword = "demo123"
)

// Seed loads a small catalog and one demo account.
func Seed(s *MemoryStore) {
	products := []domain.Product{
		{ID: 1, Name: "Laptop", Description: "A powerful laptop", Price: domain.MoneyFromFloat(1299.99), Stock: 5, ImageURL: "https://example.com/laptop.jpg"},
		{ID: 2, Name: "Mouse", Description: "Wireless mouse", Price: domain.MoneyFromFloat(29.99), Stock: 40, ImageURL: "https://example.com/mouse.jpg"},
		{ID: 3, Name: "Keyboard", Description: "Mechanical keyboard", Price: domain.MoneyFromFloat(89.5), Stock: 12, ImageURL: "https://example.com/keyboard.jpg"},
		{ID: 4, Name: "Monitor", Description: "27 inch monitor", Price: domain.MoneyFromFloat(249), Stock: 3, ImageURL: "https://example.com/monitor.jpg"},
		{ID: 5, Name: "USB-C Hub", Description: "7-in-1 hub", Price: domain.MoneyFromFloat(39.9), Stock: 25, ImageURL: "https://example.com/hub.jpg"},
		{ID: 6, Name: "Webcam", Description: "1080p webcam", Price: domain.MoneyFromFloat(59), Stock: 0, ImageURL: "https://example.com/webcam.jpg"},
		{ID: 7, Name: "Headphones", Description: "Noise cancelling headphones", Price: domain.MoneyFromFloat(199), Stock: 8, ImageURL: "https://example.com/headphones.jpg"},
		{ID: 8, Name: "Desk Lamp", Description: "LED desk lamp", Price: domain.MoneyFromFloat(24.99), Stock: 15, ImageURL: "https://example.com/lamp.jpg"},
		{ID: 9, Name: "Mouse Pad", Description: "Extended mouse pad", Price: domain.MoneyFromFloat(12), Stock: 60, ImageURL: "https://example.com/pad.jpg"},
		{ID: 10, Name: "Speakers", Description: "Bookshelf speakers", Price: domain.MoneyFromFloat(149), Stock: 6, ImageURL: "https://example.com/speakers.jpg"},
		{ID: 11, Name: "Microphone", Description: "USB microphone", Price: domain.MoneyFromFloat(99), Stock: 4, ImageURL: "https://example.com/mic.jpg"},
		{ID: 12, Name: "Laptop Stand", Description: "Aluminium laptop stand", Price: domain.MoneyFromFloat(35), Stock: 20, ImageURL: "https://example.com/stand.jpg"},
		{ID: 13, Name: "Cable Kit", Description: "Assorted cables", Price: domain.MoneyFromFloat(15.5), Stock: 100, ImageURL: "https://example.com/cables.jpg"},
		{ID: 14, Name: "Docking Station", Description: "Thunderbolt dock", Price: domain.MoneyFromFloat(279), Stock: 2, ImageURL: "https://example.com/dock.jpg"},
	}
	for _, p := range products {
		s.PutProduct(p)
	}
	_ = s.Register(domain.Registration{
		Username: DemoUsername,
		Password: DemoPassword,
		Email:    "demo@example.com",
		FullName: "Demo User",
	})
}
