package view

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
{{if .Running}}<meta http-equiv="refresh" content="{{.Refresh}}">{{end}}
<style>
body{font-family:system-ui,sans-serif;margin:0;background:#f6f8fa;color:#24292f}
.wrap{max-width:1100px;margin:0 auto;padding:32px 16px}
.hdr{text-align:center;margin-bottom:24px}
.hdr h1{margin:0 0 8px;color:#0969da}
.hdr p{margin:0 0 16px;color:#57606a}
.trigger{background:#1a7f37;color:#fff;border:0;border-radius:6px;padding:10px 20px;font-size:16px;cursor:pointer}
.trigger[disabled]{background:#8c959f;cursor:default}
.alert{background:#ffebe9;border:1px solid #ff8182;color:#82071e;padding:12px;border-radius:6px;text-align:center;margin-bottom:16px}
.tabs{display:flex;gap:4px;border-bottom:1px solid #d0d7de;margin-bottom:16px}
.tabs a{flex:1;text-align:center;padding:8px;text-decoration:none;color:#57606a;border:1px solid transparent;border-bottom:0;border-radius:6px 6px 0 0}
.tabs a.active{background:#fff;border-color:#d0d7de;color:#24292f;font-weight:600}
table{width:100%;border-collapse:collapse;background:#fff}
th,td{border:1px solid #d0d7de;padding:6px 8px;text-align:center}
thead th{background:#24292f;color:#fff}
td.slot{font-weight:600}
td small{color:#57606a}
.num{font-weight:600}
.stats{display:flex;gap:8px;justify-content:center;margin-top:12px}
.stat{background:#fff;border:1px solid #d0d7de;border-radius:6px;padding:8px 14px;text-align:center}
.stat b{display:block;font-size:18px}
iframe{width:100%;height:520px;border:0;background:#fff}
</style>
</head>
<body>
<div class="wrap">
<div class="hdr">
  <h1>{{.Title}}</h1>
  {{if .Subtitle}}<p>{{.Subtitle}}{{if .Program}} &middot; {{.Program}}{{end}}</p>{{end}}
  <form method="post" action="/run">
    {{if .Running}}
    <button class="trigger" type="submit" disabled>{{.StepLabel}}</button>
    {{else}}
    <button class="trigger" type="submit">Generate New Timetable</button>
    {{end}}
  </form>
</div>

{{if .Error}}<div class="alert" role="alert">{{.Error}}</div>{{end}}

<nav class="tabs">
  <a href="/?tab=master"{{if eq .Tab "master"}} class="active"{{end}}>Master Timetable</a>
  <a href="/?tab=teachers"{{if eq .Tab "teachers"}} class="active"{{end}}>Teacher-wise Allotment</a>
  <a href="/?tab=analytics"{{if eq .Tab "analytics"}} class="active"{{end}}>Analytics</a>
</nav>

{{if eq .Tab "master"}}
<h3>Class-wise Master Timetable</h3>
<table id="master">
  <thead><tr><th>Time Slot</th>{{range .Days}}<th>{{.}}</th>{{end}}</tr></thead>
  <tbody>
  {{range .Rows}}
  <tr>
    <td class="slot">{{.Slot}}</td>
    {{range .Cells}}
    <td>{{if .Assigned}}<strong>{{.Course}}</strong><br><small>Room {{.Room}} &middot; {{.Teacher}}</small>{{else}}{{placeholder}}{{end}}</td>
    {{end}}
  </tr>
  {{end}}
  </tbody>
</table>
{{else if eq .Tab "teachers"}}
<h3>Teacher-wise Provisional Allotment</h3>
<table id="roster">
  <thead><tr><th>Sl No</th><th>Teacher Initials</th><th>Subjects Taught</th><th>Total Periods</th></tr></thead>
  <tbody>
  {{range .Roster}}
  <tr><td>{{.SlNo}}</td><td class="num">{{.Name}}</td><td>{{.Subjects}}</td><td class="num">{{.TotalPeriods}}</td></tr>
  {{end}}
  </tbody>
</table>
{{else}}
<h3>Faculty Workload Distribution</h3>
<iframe src="/chart" title="Faculty workload"></iframe>
<div class="stats">
  <div class="stat"><b>{{.Summary.Count}}</b>Teachers</div>
  <div class="stat"><b>{{.Summary.Total}}</b>Total Periods</div>
  <div class="stat"><b>{{printf "%.1f" .Summary.Mean}}</b>Mean</div>
  <div class="stat"><b>{{printf "%.1f" .Summary.StdDev}}</b>Std Dev</div>
  <div class="stat"><b>{{.Summary.Max}}</b>Max</div>
</div>
{{end}}
</div>
</body>
</html>
`
