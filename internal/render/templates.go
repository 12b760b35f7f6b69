package render

// pageTemplate is the html/template for the publication page.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="{{.AssetBase}}style.css">
</head>
<body{{if .LiveReload}} data-live="1"{{end}}>
  <main class="page">
    <h1 class="site-title">{{.Title}}</h1>
    {{- $i := 0}}
    {{- if .Intro}}
    <section class="intro" style="{{delay $i}}">
      {{.Intro}}
    </section>
    {{- $i = 1}}
    {{- end}}
    <section class="publications" style="{{delay $i}}">
      <div class="publications-header">
        <h2 id="toggle-header">{{.Header}}</h2>
        {{- if .ToggleAction}}
        <form method="post" action="{{.ToggleAction}}" class="toggle-form">
          <input type="hidden" name="view" value="{{if .ShowingSelected}}all{{else}}selected{{end}}">
          <button type="submit" id="toggle-publications">{{.Button}}</button>
        </form>
        {{- else}}
        <a id="toggle-publications" class="toggle-button" href="{{.ToggleHref}}">{{.Button}}</a>
        {{- end}}
      </div>
      {{template "container" .}}
    </section>
  </main>
  {{- if .ImagePreview}}
  <div id="imageModal" class="modal">
    <span class="modal-close" onclick="closeModal()">&times;</span>
    <img class="modal-content" id="modalImage" alt="">
  </div>
  <script>
function openModal(imageSrc) {
  var modal = document.getElementById('imageModal');
  var modalImg = document.getElementById('modalImage');
  modal.style.display = 'block';
  setTimeout(function() {
    modal.classList.add('show');
  }, 10);
  modalImg.src = imageSrc;
}

function closeModal() {
  var modal = document.getElementById('imageModal');
  modal.classList.remove('show');
  setTimeout(function() {
    modal.style.display = 'none';
  }, 300);
}

window.addEventListener('click', function(event) {
  if (event.target === document.getElementById('imageModal')) {
    closeModal();
  }
});
  </script>
  {{- end}}
  <script src="{{.AssetBase}}script.js"></script>
</body>
</html>
{{define "container"}}<div id="publications-container">
{{- if .Failed}}{{.FallbackMessage}}
{{- else}}{{range .Items}}{{template "item" .}}{{end}}
{{- end}}</div>{{end}}
{{define "item"}}
<div class="publication-item">
  <div class="pub-content" style="width: 100%">
    <div class="pub-title">{{.Title}}</div>
    <div class="pub-authors">{{range .Authors}}{{if .Highlight}}<span class="highlight-name"><strong>{{.Name}}</strong></span>{{else}}{{.Name}}{{end}}{{if not .Last}}, {{end}}{{end}}</div>
    <div class="pub-venue-container">
      <div class="pub-venue">{{.Venue}}</div>
      {{- if .Award}}
      <div class="pub-award">{{.Award}}</div>
      {{- end}}
    </div>
    {{- if .HasLinks}}
    <div class="pub-links">
      {{- range .Links}}
      <a href="{{.Href}}"{{if .NewTab}} target="_blank" rel="noopener"{{end}}>{{.Label}}</a>
      {{- end}}
    </div>
    {{- end}}
  </div>
</div>
{{end}}`

// cssContent is the stylesheet shared by the static site and the server.
const cssContent = `:root {
  --bg: #ffffff;
  --text: #212529;
  --text-secondary: #6c757d;
  --accent: #0b5394;
  --award: #b45309;
  --border: #e9ecef;
}

* { box-sizing: border-box; }

body {
  margin: 0;
  background: var(--bg);
  color: var(--text);
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
  line-height: 1.5;
}

.page {
  max-width: 860px;
  margin: 0 auto;
  padding: 2rem 1.25rem 4rem;
}

.site-title { font-size: 2rem; margin: 0 0 1.5rem; }

section {
  opacity: 0;
  animation: fadeInUp 0.5s ease forwards;
  margin-bottom: 2.5rem;
}

@keyframes fadeInUp {
  from { opacity: 0; transform: translateY(12px); }
  to { opacity: 1; transform: translateY(0); }
}

.publications-header {
  display: flex;
  align-items: center;
  justify-content: space-between;
  border-bottom: 1px solid var(--border);
  margin-bottom: 1rem;
}

.toggle-form { margin: 0; }

#toggle-publications {
  background: none;
  border: 1px solid var(--accent);
  border-radius: 4px;
  color: var(--accent);
  cursor: pointer;
  font-size: 0.9rem;
  padding: 0.3rem 0.8rem;
  text-decoration: none;
}

#toggle-publications:hover { background: var(--accent); color: #fff; }

.publication-item {
  display: flex;
  padding: 0.9rem 0;
  border-bottom: 1px solid var(--border);
}

.pub-title { font-weight: 600; }
.pub-authors { color: var(--text-secondary); font-size: 0.95rem; }
.highlight-name { color: var(--text); }

.pub-venue-container {
  display: flex;
  flex-wrap: wrap;
  align-items: center;
  gap: 0.6rem;
  font-style: italic;
  font-size: 0.95rem;
}

.pub-award {
  color: var(--award);
  font-style: normal;
  font-weight: 600;
  font-size: 0.85rem;
}

.pub-links a {
  color: var(--accent);
  font-size: 0.9rem;
  margin-right: 0.6rem;
  text-decoration: none;
}

.pub-links a:hover { text-decoration: underline; }

.modal {
  display: none;
  position: fixed;
  z-index: 100;
  inset: 0;
  background: rgba(0, 0, 0, 0.8);
  opacity: 0;
  transition: opacity 0.3s ease;
}

.modal.show { opacity: 1; }

.modal-content {
  display: block;
  max-width: 90%;
  max-height: 85vh;
  margin: 5vh auto 0;
}

.modal-close {
  position: absolute;
  top: 1rem;
  right: 1.5rem;
  color: #fff;
  font-size: 2rem;
  cursor: pointer;
}
`

// jsContent handles in-place toggling and live reload when served.
const jsContent = `(function() {
  var container = document.getElementById('publications-container');
  var button = document.getElementById('toggle-publications');
  var header = document.getElementById('toggle-header');
  var form = document.querySelector('.toggle-form');

  function apply(state) {
    if (!state) return;
    container.outerHTML = state.html;
    container = document.getElementById('publications-container');
    button.textContent = state.button;
    header.textContent = state.header;
    if (form) form.elements.view.value = state.showing_selected ? 'all' : 'selected';
  }

  if (form) {
    form.addEventListener('submit', function(e) {
      e.preventDefault();
      fetch(form.action, {
        method: 'POST',
        headers: { 'Accept': 'application/json' },
        body: new URLSearchParams(new FormData(form))
      })
        .then(function(r) { return r.ok ? r.json() : null; })
        .then(apply)
        .catch(function(err) { console.error('Error toggling publications:', err); });
    });
  }

  if (document.body.dataset.live === '1' && window.WebSocket) {
    var proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
    var ws = new WebSocket(proto + location.host + '/ws/live');
    ws.onmessage = function(ev) {
      var msg = JSON.parse(ev.data);
      if (msg.type !== 'reload') return;
      fetch('/api/state', { headers: { 'Accept': 'application/json' } })
        .then(function(r) { return r.ok ? r.json() : null; })
        .then(apply);
    };
  }
})();
`
