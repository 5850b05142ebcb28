package flowgraph

import (
	"github.com/google/uuid"

	"github.com/Onvitec/adminportal-onvitech-sub001/models"
)

// NodeType tags a graph node as a video, question, or answer.
type NodeType string

const (
	NodeVideo    NodeType = "video"
	NodeQuestion NodeType = "question"
	NodeAnswer   NodeType = "answer"
)

// Node is one materialized node of a session's flow graph.
type Node struct {
	ID    uuid.UUID `json:"id"`
	Type  NodeType  `json:"type"`
	Label string    `json:"label"`
	Depth int       `json:"depth"`
	X     float64   `json:"x"`
	Y     float64   `json:"y"`
}

// Edge is a directed edge between two nodes. Only three kinds exist:
// video->question, question->answer, and answer->destination video.
type Edge struct {
	From uuid.UUID `json:"from"`
	To   uuid.UUID `json:"to"`
}

// Graph is the in-memory directed graph built from a session's flat rows.
// It may contain cycles: an answer's destination can point back at an
// already-materialized video.
type Graph struct {
	RootID uuid.UUID `json:"root_id"`
	Nodes  []Node    `json:"nodes"`
	Edges  []Edge    `json:"edges"`

	index map[uuid.UUID]int
}

// Node lookup by ID. Returns nil when the ID is not in the graph.
func (g *Graph) Node(id uuid.UUID) *Node {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	return &g.Nodes[i]
}

// builder carries the grouped rows and the per-type seen sets during
// construction. Each node type gets its own seen set; sharing one map across
// types can suppress legitimate nodes when a question and a video travel
// under related IDs.
type builder struct {
	videosByID        map[uuid.UUID]models.Video
	questionsByVideo  map[uuid.UUID][]models.Question
	answersByQuestion map[uuid.UUID][]models.Answer

	seenVideos    map[uuid.UUID]bool
	seenQuestions map[uuid.UUID]bool
	seenAnswers   map[uuid.UUID]bool

	graph *Graph
}

// Build constructs the flow graph for one session from its flat rows.
// Videos must arrive in authoring order; the root is the video flagged
// is_main, falling back to the first video when none is flagged. Videos not
// reachable from the root are still materialized afterward so the graph is
// complete. Answers whose destination_video_id is not in the session's video
// set get no outgoing edge (dangling references are tolerated, not fatal).
func Build(videos []models.Video, questions []models.Question, answers []models.Answer) *Graph {
	b := &builder{
		videosByID:        make(map[uuid.UUID]models.Video, len(videos)),
		questionsByVideo:  make(map[uuid.UUID][]models.Question),
		answersByQuestion: make(map[uuid.UUID][]models.Answer),
		seenVideos:        make(map[uuid.UUID]bool),
		seenQuestions:     make(map[uuid.UUID]bool),
		seenAnswers:       make(map[uuid.UUID]bool),
		graph: &Graph{
			Nodes: []Node{},
			Edges: []Edge{},
			index: make(map[uuid.UUID]int),
		},
	}

	for _, v := range videos {
		b.videosByID[v.ID] = v
	}
	for _, q := range questions {
		b.questionsByVideo[q.VideoID] = append(b.questionsByVideo[q.VideoID], q)
	}
	for _, a := range answers {
		b.answersByQuestion[a.QuestionID] = append(b.answersByQuestion[a.QuestionID], a)
	}

	if len(videos) == 0 {
		return b.graph
	}

	root := videos[0]
	for _, v := range videos {
		if v.IsMain {
			root = v
			break
		}
	}
	b.graph.RootID = root.ID

	b.traverse(root)

	// Videos disconnected from the root still belong to the session; walk
	// them in authoring order so their subtrees appear too.
	for _, v := range videos {
		if !b.seenVideos[v.ID] {
			b.traverse(v)
		}
	}

	layout(b.graph)
	return b.graph
}

// traverse materializes the subtree reachable from one video, breadth first.
// A video already materialized is never re-created; an answer pointing at it
// still gets its edge, producing a genuine cycle or a converging edge.
func (b *builder) traverse(start models.Video) {
	b.addVideoNode(start, 0)
	queue := []uuid.UUID{start.ID}

	for len(queue) > 0 {
		videoID := queue[0]
		queue = queue[1:]
		videoDepth := b.graph.Node(videoID).Depth

		for _, q := range b.questionsByVideo[videoID] {
			if b.seenQuestions[q.ID] {
				continue
			}
			b.seenQuestions[q.ID] = true
			b.addNode(Node{ID: q.ID, Type: NodeQuestion, Label: q.QuestionText, Depth: videoDepth + 1})
			b.addEdge(videoID, q.ID)

			for _, a := range b.answersByQuestion[q.ID] {
				if b.seenAnswers[a.ID] {
					continue
				}
				b.seenAnswers[a.ID] = true
				b.addNode(Node{ID: a.ID, Type: NodeAnswer, Label: a.AnswerText, Depth: videoDepth + 2})
				b.addEdge(q.ID, a.ID)

				if a.DestinationVideoID == nil {
					continue
				}
				dest, ok := b.videosByID[*a.DestinationVideoID]
				if !ok {
					// Dangling reference: omit the edge, keep going.
					continue
				}
				if !b.seenVideos[dest.ID] {
					b.addVideoNode(dest, videoDepth+3)
					queue = append(queue, dest.ID)
				}
				b.addEdge(a.ID, dest.ID)
			}
		}
	}
}

func (b *builder) addVideoNode(v models.Video, depth int) {
	b.seenVideos[v.ID] = true
	b.addNode(Node{ID: v.ID, Type: NodeVideo, Label: v.Title, Depth: depth})
}

func (b *builder) addNode(n Node) {
	b.graph.index[n.ID] = len(b.graph.Nodes)
	b.graph.Nodes = append(b.graph.Nodes, n)
}

func (b *builder) addEdge(from, to uuid.UUID) {
	b.graph.Edges = append(b.graph.Edges, Edge{From: from, To: to})
}
