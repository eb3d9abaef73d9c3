package main

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/jinzhu/gorm"
	uuid "github.com/satori/go.uuid"

	_ "github.com/jinzhu/gorm/dialects/mysql"
	_ "github.com/jinzhu/gorm/dialects/sqlite"

	"github.com/fatih/color"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/kiri-wys/chetro/board"
)

const maxBodyBytes = 1 << 16

type server struct {
	config Config
	db     *gorm.DB
	subs   *subscriptions
	out    io.Writer

	// moves are read-modify-write on the stored game
	moveMu sync.Mutex
}

func newServer(config Config, db *gorm.DB) *server {
	return &server{
		config: config,
		db:     db,
		subs:   &subscriptions{},
		out:    color.Output,
	}
}

// JoinRequest is a request to join a game.
type JoinRequest struct {
	PubKey string `json:"pubKey"`
	Signed string `json:"signed"`
	Side   string `json:"side"`
}

// GameRequest is the optional body of a new game.
type GameRequest struct {
	Layout string `json:"layout"`
	FEN    string `json:"fen"`
}

// MoveRequest asks to move the piece on From to To. Signed is required once
// the moving side has been claimed.
type MoveRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Signed string `json:"signed"`
}

func check(e error) {
	if e != nil {
		panic(e)
	}
}

func main() {
	configPath := flag.String("config", "config.json", "path to the config file")
	flag.Parse()

	fmt.Println("Starting backend.")
	config, err := readConfig(*configPath)
	check(err)
	db := getDB(config)
	defer db.Close()

	srv := newServer(config, db)
	port := ":" + strconv.Itoa(config.Port)
	httpSrv := &http.Server{Addr: port, Handler: srv.handler()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		fmt.Println("Shutting down.")
		srv.subs.closeAll()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutdownCtx)
	}()

	fmt.Println("\nListening on port " + port)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// GetIP from http request
func GetIP(r *http.Request) string {
	forwarded := r.Header.Get("X-FORWARDED-FOR")
	if forwarded != "" {
		return forwarded
	}
	return r.RemoteAddr
}

func (s *server) handler() http.Handler {
	router := mux.NewRouter()
	router.Handle("/game", s.GamePostHandler()).Methods("POST")
	router.Handle("/game/{id}", s.GameGetHandler()).Methods("GET")
	router.Handle("/game/{id}/move", s.MovePostHandler()).Methods("POST")
	router.Handle("/game/{id}/moves/{square}", s.MovesGetHandler()).Methods("GET")
	router.Handle("/game/{id}/attacks/{color}", s.AttacksGetHandler()).Methods("GET")
	router.Handle("/join/{id}", s.JoinPostHandler()).Methods("POST")
	router.Handle("/socket/{id}", s.SocketHandler()).Methods("GET")

	return handlers.CORS(
		handlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", "Authorization"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "HEAD", "OPTIONS", "PATCH"}),
		handlers.AllowedOrigins([]string{"*"}),
	)(router)
}

func writeJSON(res http.ResponseWriter, status int, v interface{}) {
	byteRes, err := json.Marshal(v)
	check(err)
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(status)
	res.Write(byteRes)
}

func writeError(res http.ResponseWriter, status int, code, detail string) {
	writeJSON(res, status, map[string]string{"error": code, "detail": detail})
}

func readBody(req *http.Request, v interface{}) error {
	body, err := io.ReadAll(io.LimitReader(req.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, v)
}

// gameFromRequest resolves the {id} route variable to a stored game.
func (s *server) gameFromRequest(res http.ResponseWriter, req *http.Request) (Game, bool) {
	gameID, err := uuid.FromString(mux.Vars(req)["id"])
	if err != nil {
		logWarn("bad game ID")
		writeError(res, http.StatusBadRequest, "bad_game_id", err.Error())
		return Game{}, false
	}
	game := Game{}
	if err := s.db.First(&game, "game_id = ?", gameID).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			writeError(res, http.StatusNotFound, "no_such_game", gameID.String())
			return Game{}, false
		}
		logError("loading game %s: %v", gameID, err)
		writeError(res, http.StatusInternalServerError, "storage", err.Error())
		return Game{}, false
	}
	return game, true
}

// currentMatch loads the latest position of game.
func (s *server) currentMatch(res http.ResponseWriter, game Game) (*board.Match, BoardState, bool) {
	last, err := lastBoardState(s.db, game.GameID)
	if err == nil {
		var m *board.Match
		if m, err = restoreMatch(last, s.config.EnforceTurns); err == nil {
			return m, last, true
		}
	}
	logError("restoring game %s: %v", game.GameID, err)
	writeError(res, http.StatusInternalServerError, "storage", err.Error())
	return nil, BoardState{}, false
}

// SocketHandler handles the websocket connection messages and responses.
func (s *server) SocketHandler() http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		logRequest(req)

		gameID, err := uuid.FromString(mux.Vars(req)["id"])
		if err != nil {
			logWarn("Invalid gameID.")
			writeError(res, http.StatusBadRequest, "bad_game_id", err.Error())
			return
		}

		var upgrader = websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		}

		upgrader.CheckOrigin = func(req *http.Request) bool { return true }

		conn, err := upgrader.Upgrade(res, req, nil)
		if err != nil {
			// Upgrade has already replied to the client.
			logWarn("websocket upgrade: %v", err)
			return
		}

		fmt.Println("Incoming websocket connection.")
		s.subs.add(SocketSub{GameID: gameID, Conn: conn})
		fmt.Println("Added subscription to list.")
		go s.subs.watch(conn)
	})
}

// PieceView is a piece as sent to clients.
type PieceView struct {
	Kind   string `json:"kind"`
	Color  string `json:"color"`
	Square string `json:"square"`
}

// BoardView is the position as sent to clients.
type BoardView struct {
	Size   board.Size      `json:"size"`
	Turn   string          `json:"turn"`
	Pieces []PieceView     `json:"pieces"`
	FEN    string          `json:"fen,omitempty"`
	Check  map[string]bool `json:"check"`
}

func viewOf(m *board.Match) BoardView {
	v := BoardView{
		Size:  m.Size(),
		Turn:  m.Turn().String(),
		Check: map[string]bool{},
	}
	for _, p := range m.Pieces() {
		v.Pieces = append(v.Pieces, PieceView{Kind: p.Kind.String(), Color: p.Color.String(), Square: p.Pos.String()})
	}
	v.FEN, _ = m.FEN()
	for _, c := range []board.Color{board.White, board.Black} {
		v.Check[c.String()] = m.InCheck(c)
	}
	return v
}

// GamePostResponse is a response to the /game endpoint.
type GamePostResponse struct {
	GameID uuid.UUID `json:"gameID"`
	Board  BoardView `json:"board"`
}

// GameGetResponse is a response to the /game endpoint.
type GameGetResponse struct {
	GameID uuid.UUID    `json:"gameID"`
	Layout string       `json:"layout"`
	Board  BoardView    `json:"board"`
	State  []BoardState `json:"state"`
}

// GameStatePush is a websocket notification of a new game state.
type GameStatePush struct {
	GameID uuid.UUID `json:"gameID"`
	Board  BoardView `json:"board"`
	Move   string    `json:"move"`
	Type   string    `json:"type"`
}

// MovesResponse lists where the piece on Square may legally go.
type MovesResponse struct {
	Square       string   `json:"square"`
	Destinations []string `json:"destinations"`
}

// AttacksResponse lists every square the pieces of Color attack.
type AttacksResponse struct {
	Color   string   `json:"color"`
	Squares []string `json:"squares"`
}

// GamePostHandler handles the game endpoint.
func (s *server) GamePostHandler() http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		logRequest(req)

		var body GameRequest
		if err := readBody(req, &body); err != nil {
			writeError(res, http.StatusBadRequest, "bad_request", err.Error())
			return
		}

		var (
			layout board.Layout
			name   = "fen"
			turn   = board.White
			err    error
		)
		if body.FEN != "" {
			layout, turn, err = board.ParseFEN(body.FEN)
		} else {
			name = body.Layout
			if name == "" {
				name = s.config.Layout
			}
			layout, err = board.LayoutByName(name)
		}
		if err != nil {
			logWarn("Refusing new game: %v", err)
			writeError(res, http.StatusBadRequest, "bad_layout", err.Error())
			return
		}
		m, err := board.NewMatch(layout, board.WithTurn(turn))
		if err != nil {
			logWarn("Refusing new game: %v", err)
			writeError(res, http.StatusBadRequest, "bad_layout", err.Error())
			return
		}

		game := Game{
			GameID: uuid.NewV4(),
			Layout: name,
		}
		if err := s.db.Create(&game).Error; err != nil {
			logError("creating game: %v", err)
			writeError(res, http.StatusInternalServerError, "storage", err.Error())
			return
		}
		if _, err := storeBoardState(s.db, game.GameID, 0, m, sideOf(turn.Opposite()), ""); err != nil {
			logError("storing initial board: %v", err)
			writeError(res, http.StatusInternalServerError, "storage", err.Error())
			return
		}
		writeJSON(res, http.StatusOK, GamePostResponse{GameID: game.GameID, Board: viewOf(m)})
	})
}

// GameGetHandler handles the get method on the game endpoint.
func (s *server) GameGetHandler() http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		logRequest(req)

		game, ok := s.gameFromRequest(res, req)
		if !ok {
			return
		}
		m, _, ok := s.currentMatch(res, game)
		if !ok {
			return
		}

		boardStates := []BoardState{}
		if err := s.db.Where("game_id = ?", game.GameID).Order("ply asc").Find(&boardStates).Error; err != nil {
			logError("listing states of %s: %v", game.GameID, err)
			writeError(res, http.StatusInternalServerError, "storage", err.Error())
			return
		}

		writeJSON(res, http.StatusOK, GameGetResponse{
			GameID: game.GameID,
			Layout: game.Layout,
			Board:  viewOf(m),
			State:  boardStates,
		})
	})
}

// MovesGetHandler lists the legal destinations of one piece.
func (s *server) MovesGetHandler() http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		logRequest(req)

		game, ok := s.gameFromRequest(res, req)
		if !ok {
			return
		}
		square, err := board.ParsePos(mux.Vars(req)["square"])
		if err != nil {
			writeError(res, http.StatusBadRequest, "bad_square", err.Error())
			return
		}
		m, _, ok := s.currentMatch(res, game)
		if !ok {
			return
		}
		writeJSON(res, http.StatusOK, MovesResponse{
			Square:       square.String(),
			Destinations: m.LegalDestinations(square).Labels(),
		})
	})
}

// AttacksGetHandler returns the attack map of one side, the squares the other
// side's king may not stand on.
func (s *server) AttacksGetHandler() http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		logRequest(req)

		game, ok := s.gameFromRequest(res, req)
		if !ok {
			return
		}
		side, ok := board.ParseColor(mux.Vars(req)["color"])
		if !ok {
			writeError(res, http.StatusBadRequest, "bad_side", mux.Vars(req)["color"])
			return
		}
		m, _, ok := s.currentMatch(res, game)
		if !ok {
			return
		}
		writeJSON(res, http.StatusOK, AttacksResponse{
			Color:   side.String(),
			Squares: m.Snapshot().AttackMap(side).Labels(),
		})
	})
}

func moveMessage(gameID uuid.UUID, from, to board.Pos) []byte {
	return []byte(fmt.Sprintf("%s:%s-%s", gameID, from, to))
}

func moveErrorCode(err error) (string, bool) {
	switch {
	case errors.Is(err, board.ErrInvalidOrigin):
		return codeInvalidOrigin, true
	case errors.Is(err, board.ErrIllegal):
		return codeIllegal, true
	case errors.Is(err, board.ErrUnsafe):
		return codeUnsafe, true
	case errors.Is(err, board.ErrWrongTurn):
		return codeWrongTurn, true
	}
	return "", false
}

// MovePostHandler validates a move against the stored position and records it.
func (s *server) MovePostHandler() http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		logRequest(req)

		var body MoveRequest
		if err := readBody(req, &body); err != nil {
			writeError(res, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		from, err := board.ParsePos(body.From)
		if err != nil {
			writeError(res, http.StatusBadRequest, "bad_square", "from: "+err.Error())
			return
		}
		to, err := board.ParsePos(body.To)
		if err != nil {
			writeError(res, http.StatusBadRequest, "bad_square", "to: "+err.Error())
			return
		}

		s.moveMu.Lock()
		defer s.moveMu.Unlock()

		game, ok := s.gameFromRequest(res, req)
		if !ok {
			return
		}
		m, last, ok := s.currentMatch(res, game)
		if !ok {
			return
		}

		// the moving piece's owner signs, even out of turn
		mover := m.Turn()
		if piece, ok := m.PieceAt(from); ok {
			mover = piece.Color
		}
		author := sideOf(mover)
		if key := game.player(author); len(key) != 0 {
			sig, err := hex.DecodeString(body.Signed)
			if err != nil || !ed25519.Verify(key, moveMessage(game.GameID, from, to), sig) {
				logWarn("Invalid signature for move.")
				writeError(res, http.StatusForbidden, "bad_signature", "move must be signed by "+author)
				return
			}
		}

		if err := m.TryMove(from, to); err != nil {
			code, known := moveErrorCode(err)
			if !known {
				logError("move %s-%s: %v", from, to, err)
				writeError(res, http.StatusInternalServerError, "engine", err.Error())
				return
			}
			logWarn("Invalid move: %v", err)
			writeError(res, http.StatusBadRequest, code, err.Error())
			return
		}

		history := m.History()
		move := history[len(history)-1].String()
		if _, err := storeBoardState(s.db, game.GameID, last.Ply+1, m, author, move); err != nil {
			logError("storing move: %v", err)
			writeError(res, http.StatusInternalServerError, "storage", err.Error())
			return
		}
		if s.config.PrintBoard {
			fmt.Fprintln(s.out, game.GameID, author, move)
			// highlight the moved piece and every square its side attacks
			m.Select(to)
			printBoard(s.out, m, m.Snapshot().AttackMap(mover))
		}

		view := viewOf(m)
		s.subs.broadcast(game.GameID, GameStatePush{
			GameID: game.GameID,
			Board:  view,
			Move:   move,
			Type:   "move",
		})
		writeJSON(res, http.StatusOK, view)
	})
}

// JoinPostHandler handles the post endpoint.
func (s *server) JoinPostHandler() http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		logRequest(req)

		var jsonBody JoinRequest
		if err := readBody(req, &jsonBody); err != nil {
			writeError(res, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		requested, ok := board.ParseColor(jsonBody.Side)
		if !ok {
			writeError(res, http.StatusBadRequest, "bad_side", jsonBody.Side)
			return
		}
		side := sideOf(requested)

		s.moveMu.Lock()
		defer s.moveMu.Unlock()

		game, ok := s.gameFromRequest(res, req)
		if !ok {
			return
		}

		if len(game.player(side)) != 0 {
			logWarn("There's already a player for " + side)
			writeError(res, http.StatusConflict, "side_taken", side)
			return
		}

		fmt.Println("Nobody is playing " + side + " currently, checking signature.")
		sig, err := hex.DecodeString(jsonBody.Signed)
		if err != nil {
			logWarn("Signature is not valid hex string.")
			writeError(res, http.StatusBadRequest, "bad_signature", err.Error())
			return
		}
		pubKey, err := hex.DecodeString(jsonBody.PubKey)
		if err != nil || len(pubKey) != ed25519.PublicKeySize {
			logWarn("Public key is not valid hex string.")
			writeError(res, http.StatusBadRequest, "bad_key", "public key must be 32 hex encoded bytes")
			return
		}
		if !ed25519.Verify(pubKey, []byte(game.GameID.String()), sig) {
			logWarn("Signature didn't verify properly.")
			writeError(res, http.StatusForbidden, "bad_signature", "signature does not match the game id")
			return
		}

		if requested == board.White {
			game.WhitePlayer = pubKey
		} else {
			game.BlackPlayer = pubKey
		}
		if err := s.db.Save(&game).Error; err != nil {
			logError("saving player: %v", err)
			writeError(res, http.StatusInternalServerError, "storage", err.Error())
			return
		}
		fmt.Println("Player successfully joined as " + side)
		writeJSON(res, http.StatusOK, map[string]string{"side": side})
	})
}
