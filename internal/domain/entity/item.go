package entity

import (
	"fmt"

	domainerrors "ormlab/internal/domain/errors"
	"ormlab/internal/orm"
)

// Item is a product on sale. The concrete kind (book, movie or album) lives in
// Kind and is stored in its own table next to the item row.
type Item struct {
	ID            int64 `orm:"column:item_id;primaryKey;autoIncrement"`
	Name          string
	Price         int
	StockQuantity int

	Kind orm.Variant `orm:"discriminator:dtype"`
}

// Book is the payload of a book item.
type Book struct {
	Author string
	Isbn   string
}

// Movie is the payload of a movie item.
type Movie struct {
	Director string
	Actor    string
}

// Album is the payload of a music album item.
type Album struct {
	Artist string
	Etc    string
}

// NewBook creates a transient book item.
func NewBook(name string, price, stock int, author, isbn string) *Item {
	return &Item{Name: name, Price: price, StockQuantity: stock, Kind: orm.VariantOf(&Book{Author: author, Isbn: isbn})}
}

// NewMovie creates a transient movie item.
func NewMovie(name string, price, stock int, director, actor string) *Item {
	return &Item{Name: name, Price: price, StockQuantity: stock, Kind: orm.VariantOf(&Movie{Director: director, Actor: actor})}
}

// NewAlbum creates a transient album item.
func NewAlbum(name string, price, stock int, artist, etc string) *Item {
	return &Item{Name: name, Price: price, StockQuantity: stock, Kind: orm.VariantOf(&Album{Artist: artist, Etc: etc})}
}

// AddStock increases the stock.
func (i *Item) AddStock(quantity int) {
	i.StockQuantity += quantity
}

// RemoveStock decreases the stock and fails when it would drop below zero.
func (i *Item) RemoveStock(quantity int) error {
	rest := i.StockQuantity - quantity
	if rest < 0 {
		return domainerrors.ErrNotEnoughStock.WithDetails(
			fmt.Sprintf("item %d has %d, %d requested", i.ID, i.StockQuantity, quantity))
	}
	i.StockQuantity = rest

	return nil
}

// KindName returns "Book", "Movie", "Album" or "" for an item without payload.
func (i *Item) KindName() string {
	switch i.Kind.Payload().(type) {
	case *Book:
		return "Book"
	case *Movie:
		return "Movie"
	case *Album:
		return "Album"
	default:
		return ""
	}
}
