package transcript

// Client-side behaviors shipped inside the document. The navigation script
// is always present; the spoiler script only when components were
// pre-rendered (in deferred mode the runtime handles spoilers itself).

const scrollToMessageScript = `function scrollToMessage(event, id) {
  event.preventDefault();
  var el = document.getElementById(id);
  if (!el) return;
  el.scrollIntoView({ behavior: "smooth", block: "center" });
  el.classList.add("dc-highlight");
  setTimeout(function () { el.classList.remove("dc-highlight"); }, 2000);
}`

const revealSpoilerScript = `document.addEventListener("click", function (event) {
  var el = event.target.closest(".dc-spoiler");
  if (el) el.classList.add("dc-spoiler--revealed");
});`

// staticStyles covers the pre-rendered component markup. In deferred mode
// the component runtime brings its own styling and this block is omitted.
const staticStyles = `
.dc-header { display: flex; align-items: center; gap: 16px; padding: 1rem; border-bottom: 5px solid rgba(79, 84, 92, 0.48); }
.dc-header-icon { width: 64px; height: 64px; border-radius: 50%; }
.dc-header-guild { font-size: 1.4em; font-weight: 700; }
.dc-header-channel { font-weight: 600; color: #b9bbbe; }
.dc-header-topic { font-size: 0.9em; color: #b9bbbe; }
.dc-msg { padding: 4px 16px; }
.dc-msg-header { display: flex; align-items: center; gap: 8px; margin-top: 12px; }
.dc-avatar { width: 40px; height: 40px; border-radius: 50%; }
.dc-author { font-weight: 600; }
.dc-badge { background: #5865f2; color: #fff; font-size: 0.65em; padding: 1px 5px; border-radius: 3px; }
.dc-role-icon { width: 18px; height: 18px; }
.dc-msg-timestamp { font-size: 0.75em; color: #72767d; }
.dc-msg-content { margin-left: 48px; white-space: normal; word-wrap: break-word; }
.dc-highlight { background: rgba(88, 101, 242, 0.3); transition: background 0.5s; }
.dc-edited { font-size: 0.7em; color: #72767d; margin-left: 4px; }
.dc-mention { color: #dee0fc; background: rgba(88, 101, 242, 0.3); border-radius: 3px; padding: 0 2px; }
.dc-emoji { width: 22px; height: 22px; vertical-align: bottom; }
.dc-spoiler { background: #202225; color: transparent; border-radius: 3px; cursor: pointer; }
.dc-spoiler--revealed { color: inherit; background: rgba(255, 255, 255, 0.1); }
.dc-reply { display: flex; align-items: center; gap: 6px; margin-left: 48px; font-size: 0.85em; color: #b9bbbe; }
.dc-reply-avatar { width: 16px; height: 16px; border-radius: 50%; }
.dc-reply-author { font-weight: 600; }
.dc-reply-link { color: #b9bbbe; text-decoration: none; }
.dc-command { color: #dee0fc; }
.dc-attachments { margin-left: 48px; margin-top: 4px; }
.dc-attachment-image { max-width: 400px; max-height: 300px; border-radius: 4px; display: block; }
.dc-attachment-video { max-width: 400px; border-radius: 4px; display: block; }
.dc-attachment-audio { display: block; }
.dc-attachment-file { background: #2f3136; border: 1px solid #292b2f; border-radius: 4px; padding: 10px; max-width: 400px; }
.dc-attachment-file a { color: #00aff4; text-decoration: none; }
.dc-attachment-size { color: #72767d; font-size: 0.8em; }
.dc-reactions { margin-left: 48px; margin-top: 4px; display: flex; gap: 4px; }
.dc-reaction { background: #2f3136; border-radius: 8px; padding: 2px 6px; display: inline-flex; align-items: center; gap: 4px; }
.dc-reaction-count { color: #b9bbbe; font-size: 0.85em; }
.dc-embed { margin-left: 48px; margin-top: 4px; background: #2f3136; border-left: 4px solid #202225; border-radius: 4px; padding: 10px 12px; max-width: 520px; }
.dc-embed-author { display: flex; align-items: center; gap: 6px; font-size: 0.85em; font-weight: 600; }
.dc-embed-author-icon { width: 20px; height: 20px; border-radius: 50%; }
.dc-embed-author a { color: inherit; }
.dc-embed-title { font-weight: 600; margin-top: 4px; }
.dc-embed-title a { color: #00aff4; text-decoration: none; }
.dc-embed-description { font-size: 0.9em; margin-top: 4px; }
.dc-embed-fields { display: flex; flex-wrap: wrap; gap: 8px; margin-top: 4px; }
.dc-embed-field { flex: 0 0 100%; font-size: 0.9em; }
.dc-embed-field--inline { flex: 1 0 30%; }
.dc-embed-field-title { font-weight: 600; }
.dc-embed-image { max-width: 100%; border-radius: 4px; margin-top: 8px; }
.dc-embed-thumbnail { max-width: 80px; border-radius: 4px; float: right; }
.dc-embed-footer { display: flex; align-items: center; gap: 6px; font-size: 0.75em; color: #72767d; margin-top: 8px; }
.dc-embed-footer-icon { width: 18px; height: 18px; border-radius: 50%; }
.dc-timestamp { background: rgba(255, 255, 255, 0.06); border-radius: 3px; padding: 0 2px; }
`
