package keyboard

// SvalboardCenters are the matrix positions of the eight finger cluster centers,
// left pinky through right pinky.
var SvalboardCenters = [...]Position{
	{Col: 2, Row: 2},
	{Col: 5, Row: 2},
	{Col: 8, Row: 2},
	{Col: 11, Row: 2},
	{Col: 14, Row: 2},
	{Col: 17, Row: 2},
	{Col: 20, Row: 2},
	{Col: 23, Row: 2},
}

const svalboardThumbRow = 5

var svalboardClusterFingers = [...]struct {
	hand   Hand
	finger Finger
}{
	{Left, Pinky},
	{Left, Ring},
	{Left, Middle},
	{Left, Index},
	{Right, Index},
	{Right, Middle},
	{Right, Ring},
	{Right, Pinky},
}

// Svalboard returns the built-in Svalboard geometry: for each finger cluster the
// center, north, south, east and west keys, followed by six thumb keys per hand.
// The shift key is the first left thumb key.
func Svalboard() *Keyboard {
	kb := &Keyboard{Name: "svalboard"}
	for i, center := range SvalboardCenters {
		hand := svalboardClusterFingers[i].hand
		finger := svalboardClusterFingers[i].finger
		// Inward (towards the other hand) is east on the left hand.
		east, west := Unbalancing{X: 0.5}, Unbalancing{X: 1}
		if hand == Right {
			east, west = west, east
		}
		kb.Keys = append(kb.Keys,
			Key{Hand: hand, Finger: finger, Position: center},
			Key{Hand: hand, Finger: finger, Position: Position{Col: center.Col, Row: center.Row - 1}, Unbalancing: Unbalancing{Y: 1}},
			Key{Hand: hand, Finger: finger, Position: Position{Col: center.Col, Row: center.Row + 1}, Unbalancing: Unbalancing{Y: 0.5}},
			Key{Hand: hand, Finger: finger, Position: Position{Col: center.Col + 1, Row: center.Row}, Unbalancing: east},
			Key{Hand: hand, Finger: finger, Position: Position{Col: center.Col - 1, Row: center.Row}, Unbalancing: west},
		)
	}
	kb.ShiftKey = len(kb.Keys)
	for col := 0; col < 6; col++ {
		kb.Keys = append(kb.Keys, Key{Hand: Left, Finger: Thumb, Position: Position{Col: 6 + col, Row: svalboardThumbRow}})
	}
	for col := 0; col < 6; col++ {
		kb.Keys = append(kb.Keys, Key{Hand: Right, Finger: Thumb, Position: Position{Col: 14 + col, Row: svalboardThumbRow}})
	}
	return kb
}
