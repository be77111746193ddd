// internal/models/card.go
package models

// Suit is a card suit. WILD cards (the Joker and the Ace of Hearts)
// count as trumps regardless of the trump suit chosen for the round.
type Suit string

const (
	SuitEmpty    Suit = "EMPTY"
	SuitHearts   Suit = "HEARTS"
	SuitDiamonds Suit = "DIAMONDS"
	SuitClubs    Suit = "CLUBS"
	SuitSpades   Suit = "SPADES"
	SuitWild     Suit = "WILD"
)

// TrumpSuits are the suits a goer may choose as trumps.
var TrumpSuits = []Suit{SuitHearts, SuitDiamonds, SuitClubs, SuitSpades}

// Card identifies one of the 53 cards in the game (52 + Joker). The
// string value is the wire format shared with clients.
type Card string

const (
	EmptyCard Card = "EMPTY"

	TwoHearts   Card = "TWO_HEARTS"
	ThreeHearts Card = "THREE_HEARTS"
	FourHearts  Card = "FOUR_HEARTS"
	SixHearts   Card = "SIX_HEARTS"
	SevenHearts Card = "SEVEN_HEARTS"
	EightHearts Card = "EIGHT_HEARTS"
	NineHearts  Card = "NINE_HEARTS"
	TenHearts   Card = "TEN_HEARTS"
	QueenHearts Card = "QUEEN_HEARTS"
	KingHearts  Card = "KING_HEARTS"
	AceHearts   Card = "ACE_HEARTS"
	JackHearts  Card = "JACK_HEARTS"
	FiveHearts  Card = "FIVE_HEARTS"

	TwoDiamonds   Card = "TWO_DIAMONDS"
	ThreeDiamonds Card = "THREE_DIAMONDS"
	FourDiamonds  Card = "FOUR_DIAMONDS"
	SixDiamonds   Card = "SIX_DIAMONDS"
	SevenDiamonds Card = "SEVEN_DIAMONDS"
	EightDiamonds Card = "EIGHT_DIAMONDS"
	NineDiamonds  Card = "NINE_DIAMONDS"
	TenDiamonds   Card = "TEN_DIAMONDS"
	QueenDiamonds Card = "QUEEN_DIAMONDS"
	KingDiamonds  Card = "KING_DIAMONDS"
	AceDiamonds   Card = "ACE_DIAMONDS"
	JackDiamonds  Card = "JACK_DIAMONDS"
	FiveDiamonds  Card = "FIVE_DIAMONDS"

	TenClubs   Card = "TEN_CLUBS"
	NineClubs  Card = "NINE_CLUBS"
	EightClubs Card = "EIGHT_CLUBS"
	SevenClubs Card = "SEVEN_CLUBS"
	SixClubs   Card = "SIX_CLUBS"
	FourClubs  Card = "FOUR_CLUBS"
	ThreeClubs Card = "THREE_CLUBS"
	TwoClubs   Card = "TWO_CLUBS"
	QueenClubs Card = "QUEEN_CLUBS"
	KingClubs  Card = "KING_CLUBS"
	AceClubs   Card = "ACE_CLUBS"
	JackClubs  Card = "JACK_CLUBS"
	FiveClubs  Card = "FIVE_CLUBS"

	TenSpades   Card = "TEN_SPADES"
	NineSpades  Card = "NINE_SPADES"
	EightSpades Card = "EIGHT_SPADES"
	SevenSpades Card = "SEVEN_SPADES"
	SixSpades   Card = "SIX_SPADES"
	FourSpades  Card = "FOUR_SPADES"
	ThreeSpades Card = "THREE_SPADES"
	TwoSpades   Card = "TWO_SPADES"
	QueenSpades Card = "QUEEN_SPADES"
	KingSpades  Card = "KING_SPADES"
	AceSpades   Card = "ACE_SPADES"
	JackSpades  Card = "JACK_SPADES"
	FiveSpades  Card = "FIVE_SPADES"

	Joker Card = "JOKER"
)

// cardTraits holds the static ranking data for one card. Rank is the
// trump ordering; coldRank is used when the card's suit is not in
// play as trumps. Renegable cards (the Five, Jack, Ace of Hearts and
// Joker) may be withheld from following a lower trump lead.
type cardTraits struct {
	rank      int
	coldRank  int
	suit      Suit
	renegable bool
}

var cardTable = map[Card]cardTraits{
	EmptyCard: {0, 0, SuitEmpty, false},

	TwoHearts:   {101, 2, SuitHearts, false},
	ThreeHearts: {102, 3, SuitHearts, false},
	FourHearts:  {103, 4, SuitHearts, false},
	SixHearts:   {104, 6, SuitHearts, false},
	SevenHearts: {105, 7, SuitHearts, false},
	EightHearts: {106, 8, SuitHearts, false},
	NineHearts:  {107, 9, SuitHearts, false},
	TenHearts:   {108, 10, SuitHearts, false},
	QueenHearts: {109, 12, SuitHearts, false},
	KingHearts:  {110, 13, SuitHearts, false},
	AceHearts:   {112, 0, SuitWild, true},
	JackHearts:  {114, 11, SuitHearts, true},
	FiveHearts:  {115, 5, SuitHearts, true},

	TwoDiamonds:   {101, 2, SuitDiamonds, false},
	ThreeDiamonds: {102, 3, SuitDiamonds, false},
	FourDiamonds:  {103, 4, SuitDiamonds, false},
	SixDiamonds:   {104, 6, SuitDiamonds, false},
	SevenDiamonds: {105, 7, SuitDiamonds, false},
	EightDiamonds: {106, 8, SuitDiamonds, false},
	NineDiamonds:  {107, 9, SuitDiamonds, false},
	TenDiamonds:   {108, 10, SuitDiamonds, false},
	QueenDiamonds: {109, 12, SuitDiamonds, false},
	KingDiamonds:  {110, 13, SuitDiamonds, false},
	AceDiamonds:   {111, 1, SuitDiamonds, false},
	JackDiamonds:  {114, 11, SuitDiamonds, true},
	FiveDiamonds:  {115, 5, SuitDiamonds, true},

	TenClubs:   {101, 1, SuitClubs, false},
	NineClubs:  {102, 2, SuitClubs, false},
	EightClubs: {103, 3, SuitClubs, false},
	SevenClubs: {104, 4, SuitClubs, false},
	SixClubs:   {105, 5, SuitClubs, false},
	FourClubs:  {106, 7, SuitClubs, false},
	ThreeClubs: {107, 8, SuitClubs, false},
	TwoClubs:   {108, 9, SuitClubs, false},
	QueenClubs: {109, 12, SuitClubs, false},
	KingClubs:  {110, 13, SuitClubs, false},
	AceClubs:   {111, 10, SuitClubs, false},
	JackClubs:  {114, 11, SuitClubs, true},
	FiveClubs:  {115, 6, SuitClubs, true},

	TenSpades:   {101, 1, SuitSpades, false},
	NineSpades:  {102, 2, SuitSpades, false},
	EightSpades: {103, 3, SuitSpades, false},
	SevenSpades: {104, 4, SuitSpades, false},
	SixSpades:   {105, 5, SuitSpades, false},
	FourSpades:  {106, 7, SuitSpades, false},
	ThreeSpades: {107, 8, SuitSpades, false},
	TwoSpades:   {108, 9, SuitSpades, false},
	QueenSpades: {109, 12, SuitSpades, false},
	KingSpades:  {110, 13, SuitSpades, false},
	AceSpades:   {111, 10, SuitSpades, false},
	JackSpades:  {114, 11, SuitSpades, true},
	FiveSpades:  {115, 6, SuitSpades, true},

	Joker: {113, 0, SuitWild, true},
}

// AllCards returns the full 53-card universe in a stable order.
func AllCards() []Card {
	cards := make([]Card, 0, len(cardTable)-1)
	for _, c := range cardOrder {
		cards = append(cards, c)
	}
	return cards
}

// cardOrder fixes the iteration order of the universe; map iteration
// order is not usable for dealing.
var cardOrder = []Card{
	TwoHearts, ThreeHearts, FourHearts, SixHearts, SevenHearts,
	EightHearts, NineHearts, TenHearts, QueenHearts, KingHearts,
	AceHearts, JackHearts, FiveHearts,
	TwoDiamonds, ThreeDiamonds, FourDiamonds, SixDiamonds,
	SevenDiamonds, EightDiamonds, NineDiamonds, TenDiamonds,
	QueenDiamonds, KingDiamonds, AceDiamonds, JackDiamonds,
	FiveDiamonds,
	TenClubs, NineClubs, EightClubs, SevenClubs, SixClubs, FourClubs,
	ThreeClubs, TwoClubs, QueenClubs, KingClubs, AceClubs, JackClubs,
	FiveClubs,
	TenSpades, NineSpades, EightSpades, SevenSpades, SixSpades,
	FourSpades, ThreeSpades, TwoSpades, QueenSpades, KingSpades,
	AceSpades, JackSpades, FiveSpades,
	Joker,
}

// Valid reports whether c names a real card in the universe.
func (c Card) Valid() bool {
	_, ok := cardTable[c]
	return ok && c != EmptyCard
}

// Rank returns the trump-order rank of the card.
func (c Card) Rank() int { return cardTable[c].rank }

// ColdRank returns the rank used when the card's suit is not trumps.
func (c Card) ColdRank() int { return cardTable[c].coldRank }

// Suit returns the card's suit. WILD for the Joker and Ace of Hearts.
func (c Card) Suit() Suit { return cardTable[c].suit }

// Renegable reports whether the card may be legally withheld from a
// lower trump lead (the renege exception).
func (c Card) Renegable() bool { return cardTable[c].renegable }

// IsTrump reports whether the card counts as a trump for the given
// trump suit. Wild cards are always trumps.
func (c Card) IsTrump(trump Suit) bool {
	s := c.Suit()
	return s == trump || s == SuitWild
}
