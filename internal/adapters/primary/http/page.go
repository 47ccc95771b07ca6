package http

import "net/http"

// handleIndex serves the embedded single-page UI
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(indexPage)); err != nil {
		s.logger.Error("Failed to write UI page: %v", err)
	}
}

// indexPage is the converter UI: upload, title, outline editor, live preview,
// download. Fully self-contained so the binary needs no asset directory.
const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>PDF to PowerPoint Pro</title>
    <style>
        * { box-sizing: border-box; }

        body {
            margin: 0;
            padding: 2rem 1rem;
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            color: #333;
            min-height: 100vh;
        }

        .container {
            max-width: 860px;
            margin: 0 auto;
            background: white;
            border-radius: 12px;
            box-shadow: 0 20px 40px rgba(0,0,0,0.1);
            padding: 2.5rem;
        }

        h1 {
            color: #2d3748;
            margin: 0 0 0.5rem;
            border-bottom: 3px solid #667eea;
            padding-bottom: 0.5rem;
        }

        .subtitle { color: #718096; margin-bottom: 2rem; }

        .step { margin-bottom: 1.5rem; }
        .step.hidden { display: none; }

        label { display: block; font-weight: 600; color: #4a5568; margin-bottom: 0.4rem; }

        input[type="file"], input[type="text"], textarea {
            width: 100%;
            padding: 0.6rem;
            border: 1px solid #cbd5e0;
            border-radius: 6px;
            font-size: 1rem;
        }

        textarea {
            font-family: ui-monospace, SFMono-Regular, Menlo, monospace;
            font-size: 0.85rem;
            min-height: 280px;
            resize: vertical;
        }

        button {
            background: #667eea;
            color: white;
            border: none;
            border-radius: 6px;
            padding: 0.7rem 1.4rem;
            font-size: 1rem;
            cursor: pointer;
            margin-top: 0.75rem;
        }

        button:hover { background: #5a67d8; }
        button:disabled { background: #a0aec0; cursor: wait; }
        button.primary { background: #48bb78; }
        button.primary:hover { background: #38a169; }

        .doc-stats {
            background: #edf2f7;
            border-radius: 6px;
            padding: 0.75rem 1rem;
            font-size: 0.9rem;
            color: #4a5568;
            margin-top: 0.75rem;
        }

        .columns { display: flex; gap: 1.5rem; flex-wrap: wrap; }
        .columns > div { flex: 1 1 320px; }

        .preview-pane {
            border: 1px solid #e2e8f0;
            border-radius: 6px;
            padding: 1rem;
            max-height: 420px;
            overflow-y: auto;
            background: #f7fafc;
        }

        .preview-slide {
            background: white;
            border: 1px solid #e2e8f0;
            border-radius: 8px;
            padding: 1rem 1.25rem;
            margin-bottom: 0.75rem;
            box-shadow: 0 2px 4px rgba(0,0,0,0.05);
        }

        .preview-slide h3 {
            margin: 0 0 0.5rem;
            color: #2d3748;
            font-size: 1rem;
        }

        .preview-slide ul { margin: 0; padding-left: 1.25rem; }
        .preview-slide li { margin-bottom: 0.25rem; font-size: 0.9rem; }
        .preview-empty { color: #a0aec0; font-style: italic; }

        .message { border-radius: 6px; padding: 0.75rem 1rem; margin-top: 1rem; }
        .message.error { background: #fed7d7; color: #c53030; }
        .message.success { background: #c6f6d5; color: #276749; }
        .message.hidden { display: none; }

        a.download {
            display: inline-block;
            background: #48bb78;
            color: white;
            text-decoration: none;
            border-radius: 6px;
            padding: 0.7rem 1.4rem;
            margin-top: 0.75rem;
        }

        .spinner { color: #718096; font-size: 0.9rem; margin-left: 0.5rem; }
    </style>
</head>
<body>
    <div class="container">
        <h1>&#128202; PDF to PowerPoint Converter</h1>
        <p class="subtitle">Upload a PDF to generate a professional PowerPoint presentation</p>

        <div class="step" id="step-upload">
            <label for="pdf-file">Choose PDF file</label>
            <input type="file" id="pdf-file" accept=".pdf,application/pdf">
            <div class="doc-stats hidden" id="doc-stats"></div>
        </div>

        <div class="step hidden" id="step-title">
            <label for="title">Presentation Title</label>
            <input type="text" id="title" value="Business Report">
            <button id="analyze-btn">Analyze Document</button>
            <span class="spinner hidden" id="analyze-spinner">Creating slide structure&hellip;</span>
        </div>

        <div class="step hidden" id="step-outline">
            <div class="columns">
                <div>
                    <label for="outline">&#9999;&#65039; Edit structure if needed:</label>
                    <textarea id="outline" spellcheck="false"></textarea>
                </div>
                <div>
                    <label>&#128203; Slide Structure (Preview)</label>
                    <div class="preview-pane" id="preview">
                        <p class="preview-empty">The preview appears here as you edit.</p>
                    </div>
                </div>
            </div>
            <button class="primary" id="generate-btn">Generate PowerPoint</button>
            <span class="spinner hidden" id="generate-spinner">Creating presentation&hellip;</span>
        </div>

        <div class="message hidden" id="message"></div>
        <div class="step hidden" id="step-download">
            <a class="download" id="download-link" href="#">&#128229; Download PowerPoint</a>
        </div>
    </div>

    <script>
        var sessionId = null;
        var socket = null;
        var previewTimer = null;

        var fileInput = document.getElementById('pdf-file');
        var docStats = document.getElementById('doc-stats');
        var titleInput = document.getElementById('title');
        var outlineInput = document.getElementById('outline');
        var previewPane = document.getElementById('preview');
        var messageBox = document.getElementById('message');

        function show(id) { document.getElementById(id).classList.remove('hidden'); }
        function hide(id) { document.getElementById(id).classList.add('hidden'); }

        function showMessage(text, kind) {
            messageBox.textContent = text;
            messageBox.className = 'message ' + kind;
        }

        function clearMessage() {
            messageBox.className = 'message hidden';
        }

        function apiError(data, fallback) {
            if (data && data.message) { return data.message; }
            return fallback;
        }

        function connectSocket() {
            var proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
            socket = new WebSocket(proto + location.host + '/ws');
            socket.onmessage = function(ev) {
                var msg = JSON.parse(ev.data);
                if (msg.type === 'preview') {
                    previewPane.innerHTML = msg.html;
                }
            };
            socket.onclose = function() { socket = null; };
        }

        function requestPreview() {
            var outline = outlineInput.value;
            if (socket && socket.readyState === WebSocket.OPEN) {
                socket.send(JSON.stringify({type: 'preview', outline: outline}));
                return;
            }
            fetch('/api/preview', {
                method: 'POST',
                headers: {'Content-Type': 'application/json'},
                body: JSON.stringify({outline: outline})
            }).then(function(res) { return res.json(); }).then(function(data) {
                if (data.html !== undefined) { previewPane.innerHTML = data.html; }
            }).catch(function() {});
        }

        outlineInput.addEventListener('input', function() {
            clearTimeout(previewTimer);
            previewTimer = setTimeout(requestPreview, 400);
        });

        fileInput.addEventListener('change', function() {
            var file = fileInput.files[0];
            if (!file) { return; }

            clearMessage();
            hide('step-title');
            hide('step-outline');
            hide('step-download');
            docStats.classList.remove('hidden');
            docStats.textContent = 'Extracting text from PDF…';

            var form = new FormData();
            form.append('pdf', file);

            fetch('/api/documents', {method: 'POST', body: form})
                .then(function(res) { return res.json().then(function(data) { return {ok: res.ok, data: data}; }); })
                .then(function(res) {
                    if (!res.ok) {
                        docStats.classList.add('hidden');
                        showMessage(apiError(res.data, 'Upload failed'), 'error');
                        return;
                    }
                    sessionId = res.data.session_id;
                    var stats = res.data.pages + ' pages, ' + res.data.characters + ' characters extracted';
                    if (res.data.truncated) {
                        stats += ' (truncated to fit the processing budget)';
                    }
                    docStats.textContent = stats;
                    titleInput.value = res.data.suggested_title;
                    show('step-title');
                    connectSocket();
                })
                .catch(function() {
                    docStats.classList.add('hidden');
                    showMessage('Upload failed', 'error');
                });
        });

        document.getElementById('analyze-btn').addEventListener('click', function() {
            if (!sessionId) { return; }
            clearMessage();
            var btn = this;
            btn.disabled = true;
            show('analyze-spinner');

            fetch('/api/sessions/' + sessionId + '/outline', {
                method: 'POST',
                headers: {'Content-Type': 'application/json'},
                body: JSON.stringify({title: titleInput.value})
            })
                .then(function(res) { return res.json().then(function(data) { return {ok: res.ok, data: data}; }); })
                .then(function(res) {
                    btn.disabled = false;
                    hide('analyze-spinner');
                    if (!res.ok) {
                        showMessage(apiError(res.data, 'Analysis failed'), 'error');
                        return;
                    }
                    outlineInput.value = res.data.outline;
                    show('step-outline');
                    requestPreview();
                })
                .catch(function() {
                    btn.disabled = false;
                    hide('analyze-spinner');
                    showMessage('Analysis failed', 'error');
                });
        });

        document.getElementById('generate-btn').addEventListener('click', function() {
            if (!sessionId) { return; }
            clearMessage();
            hide('step-download');
            var btn = this;
            btn.disabled = true;
            show('generate-spinner');

            fetch('/api/sessions/' + sessionId + '/deck', {
                method: 'POST',
                headers: {'Content-Type': 'application/json'},
                body: JSON.stringify({title: titleInput.value, outline: outlineInput.value})
            })
                .then(function(res) { return res.json().then(function(data) { return {ok: res.ok, data: data}; }); })
                .then(function(res) {
                    btn.disabled = false;
                    hide('generate-spinner');
                    if (!res.ok) {
                        showMessage(apiError(res.data, 'Generation failed'), 'error');
                        return;
                    }
                    showMessage('✅ Presentation generated successfully!', 'success');
                    document.getElementById('download-link').href = res.data.download_url;
                    show('step-download');
                })
                .catch(function() {
                    btn.disabled = false;
                    hide('generate-spinner');
                    showMessage('Generation failed', 'error');
                });
        });
    </script>
</body>
</html>
`
