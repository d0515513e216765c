// Package viz renders a chord diagram as a self-contained HTML page.
//
// The page draws the precomputed group and ribbon angles as given. D3 is
// used only to turn angles into SVG path strings and to pick region colours.
package viz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/matsen/visitflow/internal/diagram"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("viz").Parse(htmlTemplate))
}

// D3URL is the CDN location of the D3 bundle.
const D3URL = "https://cdn.jsdelivr.net/npm/d3@7/dist/d3.min.js"

// Bounds for HTMLOptions.Size, in pixels.
const (
	MinSize     = 200
	MaxSize     = 4000
	DefaultSize = 800
)

// HTMLOptions configures HTML generation.
type HTMLOptions struct {
	Title string
	Size  int // width and height of the square SVG
}

// DefaultOptions returns default HTML generation options.
func DefaultOptions() HTMLOptions {
	return HTMLOptions{
		Title: "Diplomatic visits",
		Size:  DefaultSize,
	}
}

// GenerateHTML generates a self-contained HTML file for the chord diagram.
func GenerateHTML(d *diagram.Diagram, opts HTMLOptions) (string, error) {
	if d == nil {
		return "", fmt.Errorf("diagram cannot be nil")
	}

	if opts.Size == 0 {
		opts.Size = DefaultSize
	}
	if opts.Size < MinSize || opts.Size > MaxSize {
		return "", fmt.Errorf("invalid size %d: must be between %d and %d", opts.Size, MinSize, MaxSize)
	}
	if opts.Title == "" {
		opts.Title = DefaultOptions().Title
	}

	if d.IsEmpty() {
		return generateEmptyHTML(opts.Title), nil
	}

	diagramJSON, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("encoding diagram: %w", err)
	}

	data := templateData{
		Title:       opts.Title,
		D3URL:       D3URL,
		Size:        opts.Size,
		DiagramJSON: template.JS(diagramJSON),
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// templateData holds data for the HTML template.
type templateData struct {
	Title       string
	D3URL       string
	Size        int
	DiagramJSON template.JS
}

// generateEmptyHTML returns HTML for a diagram with nothing to draw.
func generateEmptyHTML(title string) string {
	return `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>` + template.HTMLEscapeString(title) + ` - Empty</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      display: flex;
      justify-content: center;
      align-items: center;
      height: 100vh;
      margin: 0;
      background: #f5f5f5;
    }
    .empty-state {
      text-align: center;
      color: #666;
    }
    .empty-state h2 {
      margin-bottom: 0.5em;
      color: #333;
    }
    .empty-state code {
      background: #e0e0e0;
      padding: 2px 6px;
      border-radius: 3px;
    }
  </style>
</head>
<body>
  <div class="empty-state">
    <h2>No visits to draw</h2>
    <p>No country pair passes the current year, region and minimum-visit filters.</p>
    <p>Import data with <code>vf import</code> or relax the filters with <code>--min-visits</code> and <code>--region</code>.</p>
  </div>
</body>
</html>`
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <script src="{{.D3URL}}"></script>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      background: #fff;
      display: flex;
      flex-direction: column;
      align-items: center;
    }
    h1 {
      font-size: 18px;
      font-weight: 600;
      color: #333;
    }
    .group-label {
      font-size: 10px;
      fill: #333;
    }
    .ribbon {
      fill-opacity: 0.67;
      stroke-width: 0.5;
    }
    .ribbon.dimmed {
      fill-opacity: 0.08;
    }
    #legend {
      display: flex;
      flex-wrap: wrap;
      gap: 12px;
      font-size: 12px;
      margin: 8px 0 24px;
    }
    #legend span::before {
      content: "";
      display: inline-block;
      width: 10px;
      height: 10px;
      margin-right: 4px;
      background: var(--swatch);
    }
    #tooltip {
      position: absolute;
      display: none;
      background: white;
      border: 1px solid #ccc;
      border-radius: 4px;
      padding: 6px 10px;
      box-shadow: 0 2px 8px rgba(0,0,0,0.15);
      font-size: 12px;
      pointer-events: none;
    }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  <svg id="chord"></svg>
  <div id="legend"></div>
  <div id="tooltip"></div>
  <script>
    (function() {
      const data = {{.DiagramJSON}};
      const size = {{.Size}};
      const outerRadius = size / 2 - 90;
      const innerRadius = outerRadius - 12;

      const color = d3.scaleOrdinal(d3.schemeCategory10).domain(data.regions);
      const regionColor = function(region) {
        return region ? color(region) : '#999';
      };

      const svg = d3.select('#chord')
        .attr('width', size)
        .attr('height', size)
        .attr('viewBox', [-size / 2, -size / 2, size, size]);

      const arc = d3.arc().innerRadius(innerRadius).outerRadius(outerRadius);
      const ribbon = (data.directed ? d3.ribbonArrow() : d3.ribbon()).radius(innerRadius - 1);

      const tooltip = document.getElementById('tooltip');
      function showTooltip(evt, text) {
        tooltip.textContent = text;
        tooltip.style.display = 'block';
        tooltip.style.left = (evt.pageX + 12) + 'px';
        tooltip.style.top = (evt.pageY + 12) + 'px';
      }
      function hideTooltip() {
        tooltip.style.display = 'none';
      }

      // Ribbons: endpoint angles come straight from the layout
      const ribbons = svg.append('g')
        .selectAll('path')
        .data(data.ribbons)
        .join('path')
        .attr('class', 'ribbon')
        .attr('d', ribbon)
        .attr('fill', d => regionColor(d.colorRegion))
        .attr('stroke', d => d3.rgb(regionColor(d.colorRegion)).darker())
        .on('mousemove', function(evt, d) {
          let text = d.source.country + ' → ' + d.target.country + ': ' + d.source.value;
          if (!data.directed && d.source.index !== d.target.index) {
            text += '\n' + d.target.country + ' → ' + d.source.country + ': ' + d.target.value;
          }
          showTooltip(evt, text);
        })
        .on('mouseout', hideTooltip);

      const group = svg.append('g')
        .selectAll('g')
        .data(data.groups)
        .join('g');

      group.append('path')
        .attr('d', arc)
        .attr('fill', d => regionColor(d.region))
        .attr('stroke', d => d3.rgb(regionColor(d.region)).darker())
        .on('mouseover', function(evt, g) {
          ribbons.classed('dimmed', r => r.source.index !== g.index && r.target.index !== g.index);
          showTooltip(evt, g.country + ' (' + (g.region || 'unknown region') + '): ' + g.value);
        })
        .on('mouseout', function() {
          ribbons.classed('dimmed', false);
          hideTooltip();
        });

      group.append('text')
        .attr('class', 'group-label')
        .attr('dy', '0.35em')
        .attr('transform', d =>
          'rotate(' + d.label.rotate + ')' +
          ' translate(' + (outerRadius + 6) + ')' +
          (d.label.flipped ? ' rotate(180)' : ''))
        .attr('text-anchor', d => d.label.anchor)
        .text(d => d.country);

      d3.select('#legend')
        .selectAll('span')
        .data(data.regions)
        .join('span')
        .style('--swatch', d => color(d))
        .text(d => d);
    })();
  </script>
</body>
</html>`
