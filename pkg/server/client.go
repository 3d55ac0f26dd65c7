package server

// RootID is the id of the element that holds the rendered tree.
const RootID = "crumbs-root"

// LivePath is the WebSocket endpoint of live sessions.
const LivePath = "/_crumbs/live"

// clientScript keeps a page live: it opens a session at the current path,
// turns clicks on marked links into navigate messages and swaps in every
// rendered tree.
const clientScript = `(function () {
  var root = document.getElementById("crumbs-root");
  if (!root || !window.WebSocket) return;
  var proto = location.protocol === "https:" ? "wss:" : "ws:";
  var url = proto + "//" + location.host + "/_crumbs/live?path=" + encodeURIComponent(location.pathname);
  var ws = new WebSocket(url);
  ws.onmessage = function (ev) {
    var msg = JSON.parse(ev.data);
    if (msg.type === "render") {
      root.innerHTML = msg.html;
      if (msg.path && msg.path !== location.pathname) history.pushState({}, "", msg.path);
    } else if (msg.type === "error") {
      console.error("crumbs:", msg.code || "", msg.message);
    }
  };
  function navigate(path) {
    if (ws.readyState !== 1) { location.href = path; return; }
    ws.send(JSON.stringify({ type: "navigate", path: path }));
  }
  document.addEventListener("click", function (ev) {
    var a = ev.target.closest && ev.target.closest("a[data-crumbs-link]");
    if (!a || ev.metaKey || ev.ctrlKey || ev.shiftKey || ev.button !== 0) return;
    ev.preventDefault();
    navigate(a.getAttribute("href"));
  });
  window.addEventListener("popstate", function () { navigate(location.pathname); });
})();`
