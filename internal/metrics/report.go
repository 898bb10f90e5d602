// internal/metrics/report.go
package metrics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
)

type reportData struct {
	Title       string
	ReportsJSON template.JS
}

// GenerateHTMLReport renders a standalone HTML dashboard comparing the
// aggregated models. The page carries its data inline, so the file can be
// opened directly in a browser.
func GenerateHTMLReport(reports []ModelReport) (string, error) {
	payload, err := json.Marshal(reports)
	if err != nil {
		return "", err
	}
	viewModel := reportData{
		Title:       "ossbench: Benchmark Report",
		ReportsJSON: template.JS(payload),
	}
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, viewModel); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteHTMLReport generates the report and writes it to path.
func WriteHTMLReport(path string, reports []ModelReport) error {
	html, err := GenerateHTMLReport(reports)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return fmt.Errorf("write HTML report: %w", err)
	}
	return nil
}

var reportTemplate = template.Must(template.New("benchmark-report").Parse(reportTemplateHTML))

const reportTemplateHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .Title }}</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css">
  <style>
    :root {
      --primary: #334155;
      --secondary: #64748B;
      --accent: #3B82F6;
      --light: #F1F5F9;
      --border: #E2E8F0;
    }
    body { background-color: var(--light); }
    .navbar-dark { background-color: var(--primary) !important; }
    .card { border: 1px solid var(--border); }
    .chart-canvas { position: relative; height: 360px; }
  </style>
</head>
<body>
  <nav class="navbar navbar-dark bg-dark">
    <div class="container-fluid">
      <span class="navbar-brand mb-0 h1">{{ .Title }}</span>
      <span class="text-light">Generated: <span id="generatedAt">-</span></span>
    </div>
  </nav>
  <main class="container-fluid my-4">
    <section>
      <div class="card shadow-sm">
        <div class="card-header bg-white"><h5 class="mb-0">Model Comparison</h5></div>
        <div class="card-body">
          <div class="table-responsive">
            <table class="table table-striped table-hover table-bordered table-sm" id="modelsTable">
              <thead class="table-light">
                <tr>
                  <th>Model</th>
                  <th>Runs</th>
                  <th>Successes</th>
                  <th>Avg (s)</th>
                  <th>Median (s)</th>
                  <th>Min (s)</th>
                  <th>Max (s)</th>
                  <th>Avg TTFT (s)</th>
                  <th>Avg Tokens/sec</th>
                </tr>
              </thead>
              <tbody></tbody>
            </table>
          </div>
        </div>
      </div>
    </section>

    <section class="mt-4">
      <div class="row g-3">
        <div class="col-xl-6">
          <div class="card shadow-sm">
            <div class="card-body">
              <h5>Average Duration</h5>
              <div class="chart-canvas"><canvas id="durationChart"></canvas></div>
            </div>
          </div>
        </div>
        <div class="col-xl-6">
          <div class="card shadow-sm">
            <div class="card-body">
              <h5>Average Throughput</h5>
              <div class="chart-canvas"><canvas id="throughputChart"></canvas></div>
            </div>
          </div>
        </div>
      </div>
    </section>
  </main>

  <script src="https://cdn.jsdelivr.net/npm/chart.js@4.4.2/dist/chart.umd.min.js"></script>
  <script>
    var reports = {{ .ReportsJSON }};
  </script>
  <script>
    (function() {
      function fmt(value, decimals) {
        if (value === null || value === undefined || isNaN(value)) {
          return '-';
        }
        return Number(value).toFixed(decimals);
      }

      function populateTable(models) {
        var tbody = document.querySelector('#modelsTable tbody');
        models.forEach(function(model) {
          var row = document.createElement('tr');
          [
            model.model,
            model.runs,
            model.successes,
            fmt(model.avg_duration_seconds, 3),
            fmt(model.median_duration_seconds, 3),
            fmt(model.min_duration_seconds, 3),
            fmt(model.max_duration_seconds, 3),
            fmt(model.avg_ttft_seconds, 3),
            fmt(model.avg_tokens_per_second, 2)
          ].forEach(function(value) {
            var cell = document.createElement('td');
            cell.textContent = value;
            row.appendChild(cell);
          });
          tbody.appendChild(row);
        });
      }

      function buildBarChart(canvasId, models, field, label, color) {
        var canvas = document.getElementById(canvasId);
        if (!canvas) {
          return;
        }
        new Chart(canvas, {
          type: 'bar',
          data: {
            labels: models.map(function(m) { return m.model; }),
            datasets: [{
              label: label,
              data: models.map(function(m) { return m[field] || 0; }),
              backgroundColor: color
            }]
          },
          options: {
            responsive: true,
            maintainAspectRatio: false,
            animation: false,
            scales: {
              y: {
                title: { display: true, text: label, color: '#64748B' },
                ticks: { color: '#64748B' }
              },
              x: { ticks: { color: '#64748B' } }
            },
            plugins: { legend: { display: false } }
          }
        });
      }

      document.getElementById('generatedAt').textContent = new Date().toLocaleString();
      if (!reports || !reports.length) {
        return;
      }
      populateTable(reports);
      buildBarChart('durationChart', reports, 'avg_duration_seconds', 'Seconds', '#3B82F6');
      buildBarChart('throughputChart', reports, 'avg_tokens_per_second', 'Tokens/sec', '#10B981');
    })();
  </script>
</body>
</html>
`
