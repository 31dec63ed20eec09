package analyze

import (
	"fmt"

	"github.com/mhaertel/inkboard/pkg/scene"
)

// The prompt contract: the model answers with a single JSON object matching
// the scene schema. Keep the schema text in sync with pkg/scene/types.go.
const schemaPrompt = `You convert a text description into a JSON scene for an
infographic renderer. Respond with ONE JSON object only, no prose.

Schema:
{
  "title": string,                 // short, headline-style
  "subtitle": string,              // optional one-liner
  "type": string,                  // one of: architecture, flowchart,
                                   // comparison, process, pipeline,
                                   // concept_map, infographic, multi_agent,
                                   // rag_pipeline, timeline
  "nodes": [{
    "id": string,                  // short snake_case, unique
    "label": string,               // display name, <= 4 words
    "description": string,         // optional, <= 15 words
    "icon": string,                // optional: database, brain, gear, robot,
                                   // cloud, user, document, search, shield,
                                   // chart, network, code, mail, clock, ...
    "shape": string,               // optional: rounded_rect, cylinder,
                                   // hexagon, diamond, circle, cloud,
                                   // parallelogram, person
    "layer": int,                  // architecture only: band index, 0 = top
    "group": string,               // multi_agent/force: cluster name
    "zone": string,                // multi_agent/zones: region name
    "is_center": bool              // concept_map only: the hub node
  }],
  "connections": [{
    "from": string, "to": string,  // node ids
    "label": string,               // optional, <= 3 words
    "style": string                // arrow, line, dashed_arrow, dashed_line,
                                   // numbered, bidirectional, curved_arrow,
                                   // curved_dashed
  }],
  "layers": [{"name": string, "nodes": [string]}],  // architecture bands
  "zones": [{"name": string, "nodes": [string]}],   // multi_agent regions
  "footer": string                 // optional source/footnote line
}

Rules:
- 3 to 12 nodes. Every connection endpoint must be a node id.
- Prefer concrete, specific labels over generic ones.
- Use layers only for architecture, zones only for multi_agent.`

// typeGuidance maps a scene-type family to extra instructions. Families
// share a renderer, so they share guidance.
var typeGuidance = map[scene.Type]string{
	scene.TypeArchitecture: `Set "type":"architecture". Organize nodes into 2-4
named layers from user-facing (top) to infrastructure (bottom).`,
	scene.TypeFlowchart: `Set "type":"flowchart". Nodes form a sequence with
branches; use diamond shapes for decisions.`,
	scene.TypePipeline: `Set "type":"pipeline". Nodes form one left-to-right
processing chain; label connections with the data that flows.`,
	scene.TypeRAGPipeline: `Set "type":"rag_pipeline". Show retrieval,
augmentation, and generation stages; use cylinder shapes for stores.`,
	scene.TypeComparison: `Set "type":"comparison". Exactly 2 groups of nodes;
assign each node a "group" naming its side.`,
	scene.TypeProcess: `Set "type":"process". Nodes are sequential steps in
order; connect consecutive steps with plain arrows.`,
	scene.TypeTimeline: `Set "type":"timeline". Nodes are chronological events,
oldest first; put the date in the label.`,
	scene.TypeInfographic: `Set "type":"infographic". Nodes are standalone
facts or stats; connections optional.`,
	scene.TypeConceptMap: `Set "type":"concept_map". One node has
"is_center":true; all others connect to it.`,
	scene.TypeMultiAgent: `Set "type":"multi_agent". Agents collaborate; group
related agents with "zone" and name the zones.`,
}

// systemPrompt builds the system message, optionally pinning the scene type.
func systemPrompt(hint scene.Type) string {
	if guidance, ok := typeGuidance[hint]; ok {
		return schemaPrompt + "\n\n" + guidance
	}
	return schemaPrompt + `

Pick the "type" that best fits the text: use architecture for systems with
tiers, pipeline/flowchart for sequential processing, comparison for
either/or content, concept_map for one central idea, multi_agent for
collaborating actors, process/timeline for ordered steps or events.`
}

const repairSystemPrompt = `You fix malformed JSON scene documents. Respond
with the corrected JSON object only, no prose, no markdown fences. Preserve
the content; fix only the structural problem described.`

func repairUserPrompt(raw string, parseErr error) string {
	return fmt.Sprintf("This scene JSON failed to parse (%v). Fix it:\n\n%s", parseErr, raw)
}
