package automation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/lvnexus/nexus/logger"
	"github.com/lvnexus/nexus/model"
	"go.uber.org/zap"
)

// The fetch and parse steps are simulations. Every http request node
// "fetches" this fixed sitemap, of which exactly two entries are PDFs.
const mockSitemapXml = `
	<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
		<url><loc>https://example.com/page1</loc></url>
		<url><loc>https://example.com/docs/whitepaper.pdf</loc></url>
		<url><loc>https://example.com/page2</loc></url>
		<url><loc>https://example.com/assets/brochure.pdf</loc></url>
	</urlset>`

var locRegex = regexp.MustCompile(`(?i)<loc>(.*?)</loc>`)

func parseMockSitemap(xml string) []string {
	matches := locRegex.FindAllStringSubmatch(xml, -1)
	urls := make([]string, 0, len(matches))
	for _, match := range matches {
		urls = append(urls, match[1])
	}
	return urls
}

// DryRun simulates one execution of the workflow's pipeline. The walker
// assumes the rigid start -> http request -> xml -> filter chain; it is
// not a general graph executor. Pipeline failures are swallowed into the
// response summary so a dry run never errors, matching the product
// behavior. Only an unknown workflow id is returned as an error.
func (s *Service) DryRun(id string, scheduled bool) (*model.AutomationRunResponse, error) {
	state, err := s.FindById(id)
	if err != nil {
		return nil, err
	}
	urls, err := s.walkPipeline(state.Workflow)
	if err != nil {
		logger.Info("workflow simulation error", zap.String("workflow", id), zap.Error(err))
		s.collector.RecordDryRunFailure(id, err.Error())
		return &model.AutomationRunResponse{
			Results: []model.FeedItem{},
			Summary: fmt.Sprintf("Dry run failed: %s", err.Error()),
		}, nil
	}
	results := make([]model.FeedItem, 0, len(urls))
	for _, url := range urls {
		s.rndMu.Lock()
		item := s.gen.Generate()
		s.rndMu.Unlock()
		summary := fmt.Sprintf("AI Brief for Lehigh Valley ops: %s.", strings.ToLower(item.Title))
		item.Id = uuid.New().String()
		item.Type = model.ITEM_TYPE_AUTOMATION
		item.Severity = model.SEVERITY_HIGH
		item.Title = "Automation: New PDF Found"
		if scheduled {
			item.Title = "SCHEDULED: " + item.Title
		}
		item.Location = url
		item.Summary = summary
		item.Actions = []string{"preview", "download"}
		item.Timestamp = s.now().UnixMilli()
		results = append(results, item)
	}
	if len(results) > 0 {
		s.feed.AddAutomationEvents(results)
	}
	s.collector.RecordDryRun(id, scheduled, len(results))
	return &model.AutomationRunResponse{
		Results: results,
		Summary: fmt.Sprintf("Dry run complete. Found %d matching items.", len(results)),
	}, nil
}

// walkPipeline resolves the fixed 4 node chain and returns the URLs that
// survive the filter step.
func (s *Service) walkPipeline(wf model.Workflow) ([]string, error) {
	nodeMap := make(map[string]model.WorkflowNode, len(wf.Nodes))
	for _, node := range wf.Nodes {
		nodeMap[node.Id] = node
	}
	var startNode *model.WorkflowNode
	for i := range wf.Nodes {
		if wf.Nodes[i].Type == model.NODE_TYPE_START {
			startNode = &wf.Nodes[i]
			break
		}
	}
	if startNode == nil {
		return nil, MalformedWorkflowError{Message: "Start node not found"}
	}
	httpNode, ok := nodeMap[firstConnection(wf, startNode.Id)]
	if !ok || httpNode.Type != model.NODE_TYPE_HTTP_REQUEST {
		return nil, MalformedWorkflowError{Message: "HTTP Request node not found after start"}
	}
	xmlNode, ok := nodeMap[firstConnection(wf, httpNode.Id)]
	if !ok || xmlNode.Type != model.NODE_TYPE_XML {
		return nil, MalformedWorkflowError{Message: "XML node not found after HTTP Request"}
	}
	urls := parseMockSitemap(mockSitemapXml)
	filterNode, ok := nodeMap[firstConnection(wf, xmlNode.Id)]
	if !ok || filterNode.Type != model.NODE_TYPE_FILTER {
		return nil, MalformedWorkflowError{Message: "Filter node not found after XML"}
	}
	pdfUrls := make([]string, 0, len(urls))
	for _, url := range urls {
		if strings.HasSuffix(url, ".pdf") {
			pdfUrls = append(pdfUrls, url)
		}
	}
	return pdfUrls, nil
}

// firstConnection returns the target of the node's first outgoing main
// connection, or "" when there is none.
func firstConnection(wf model.Workflow, nodeId string) string {
	conns, ok := wf.Connections[nodeId]
	if !ok || len(conns.Main) == 0 || len(conns.Main[0]) == 0 {
		return ""
	}
	return conns.Main[0][0].Node
}
